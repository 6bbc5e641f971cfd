package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question about your documents",
	Long: `Retrieves the most relevant chunks from your session uploads and the
reference library, then answers via the hosted chat model. Without
watsonx credentials the raw matching chunks are shown instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "list source chunks under the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	answer, err := assistantService.Ask(context.Background(), sessionScope(), args[0], nil)
	switch {
	case errors.Is(err, domain.ErrChatUnavailable):
		cmd.Println("Chat model not configured (set WATSONX_API_KEY and WATSONX_PROJECT_ID).")
		cmd.Println("Best matching chunks:")
		cmd.Println()
		printSources(cmd, answer.Sources)
		return nil
	case err != nil:
		return fmt.Errorf("ask: %w", err)
	}

	cmd.Println(answer.Text)
	if askShowSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		printSources(cmd, answer.Sources)
	}
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.RetrievedChunk) {
	if len(sources) == 0 {
		cmd.Println("  (none)")
		return
	}
	for i, src := range sources {
		origin := "upload"
		if src.IsReference {
			origin = "reference"
		}
		cmd.Printf("  [%d] %s (%s, score %d)\n", i+1, src.Filename, origin, src.Score)
		cmd.Printf("      %s\n", snippet(src.Chunk.Text, 200))
	}
}

// snippet truncates text for single-line display.
func snippet(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
