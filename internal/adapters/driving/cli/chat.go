package cli

import (
	"github.com/spf13/cobra"

	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat interface",
	Long: `Starts a terminal chat session. Each question is answered with context
retrieved from your session uploads and the reference library.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	modelName := ""
	if chatModel != nil {
		modelName = chatModel.ModelName()
	}
	return tui.Run(assistantService, sessionScope(), modelName)
}
