package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored document and chunk",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	documents, chunks, err := docStore.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	cmd.Printf("Database holds %d documents and %d chunks.\n", documents, chunks)

	if !resetForce {
		cmd.Print("Delete everything? [y/N]: ")
		var reply string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &reply)
		if reply != "y" && reply != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := docStore.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}

	documents, chunks, err = docStore.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	cmd.Printf("Done. Remaining: %d documents, %d chunks.\n", documents, chunks)
	return nil
}
