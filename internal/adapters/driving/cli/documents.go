package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List documents visible to the session",
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	docs, err := docStore.ListDocuments(context.Background(), sessionScope())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for _, doc := range docs {
		scope := doc.SessionID
		if scope == "" {
			scope = "global"
		}
		cmd.Printf("  %-24s %-10s %-8s %s\n", doc.ID, string(doc.ContentType), scope, doc.Filename)
	}
	cmd.Printf("%d documents.\n", len(docs))
	return nil
}
