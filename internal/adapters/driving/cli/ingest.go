package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

var ingestDocumentID string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the session scope",
	Long: `Reads each file, extracts its text, splits it into chunks and stores
it under the current session. Text files are stored as-is; image files
are transcribed through the vision model. PDFs must be rasterised to
page images first (one image per page).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDocumentID, "id", "", "document id (single file only, generated when empty)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestDocumentID != "" && len(args) > 1 {
		return fmt.Errorf("--id applies to a single file, got %d", len(args))
	}

	ctx := context.Background()
	for _, path := range args {
		upload, err := uploadFromFile(path)
		if err != nil {
			return err
		}

		result, err := ingestService.Ingest(ctx, sessionScope(), ingestDocumentID, upload)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("Ingested %s\n", upload.Filename)
		cmd.Printf("  id:     %s\n", result.DocumentID)
		cmd.Printf("  hash:   %s\n", result.FileHash)
		cmd.Printf("  chunks: %d\n", result.ChunkCount)
		for _, page := range result.FailedPages {
			cmd.Printf("  page %d failed: %v\n", page.Page, page.Err)
		}
	}
	return nil
}

// uploadFromFile reads a file and classifies it by extension.
func uploadFromFile(path string) (*domain.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	contentType, err := contentTypeForFile(path)
	if err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Metadata:    map[string]any{"file_size": len(data)},
	}
	if contentType == domain.ContentTypePDF {
		// Rasterisation happens upstream of the pipeline. A pre-split
		// page directory would land here; single-file PDF ingestion is
		// not supported.
		return nil, fmt.Errorf("%w: rasterise the PDF to page images and ingest those", domain.ErrUnsupportedType)
	}
	upload.Data = data

	return upload, nil
}

// contentTypeForFile maps a file extension to an upload content type.
func contentTypeForFile(path string) (domain.ContentType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text":
		return domain.ContentTypeText, nil
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return domain.ContentTypeImage, nil
	case ".pdf":
		return domain.ContentTypePDF, nil
	default:
		return "", fmt.Errorf("%w: unrecognised extension %q", domain.ErrUnsupportedType, filepath.Ext(path))
	}
}
