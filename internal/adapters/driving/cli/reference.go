package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/config/file"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Manage the reference document library",
}

var referenceLoadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Load all .txt guides from a directory into the global scope",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReferenceLoad,
}

var referenceWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and re-ingest guides as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReferenceWatch,
}

func init() {
	referenceCmd.AddCommand(referenceLoadCmd)
	referenceCmd.AddCommand(referenceWatchCmd)
	rootCmd.AddCommand(referenceCmd)
}

// referenceDir resolves the library directory from the argument, the
// config file, or the default, in that order.
func referenceDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if dir := configStore.GetString(file.KeyReferenceDir); dir != "" {
		return dir
	}
	return "reference_documents"
}

func runReferenceLoad(cmd *cobra.Command, args []string) error {
	dir := referenceDir(args)

	report, err := librarian.LoadDirectory(context.Background(), dir)
	if err != nil {
		return fmt.Errorf("load reference library: %w", err)
	}

	for _, name := range report.Loaded {
		cmd.Printf("  loaded %s\n", name)
	}
	for name, loadErr := range report.Failed {
		cmd.Printf("  failed %s: %v\n", name, loadErr)
	}
	cmd.Printf("Reference library: %d loaded, %d failed\n", len(report.Loaded), len(report.Failed))

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d reference documents failed to load", len(report.Failed))
	}
	return nil
}

func runReferenceWatch(cmd *cobra.Command, args []string) error {
	dir := referenceDir(args)

	// Load once so the library is complete before watching deltas.
	if _, err := librarian.LoadDirectory(context.Background(), dir); err != nil {
		return fmt.Errorf("initial library load: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)
	if err := librarian.Watch(ctx, dir); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch reference library: %w", err)
	}
	return nil
}
