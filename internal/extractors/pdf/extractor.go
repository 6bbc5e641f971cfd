// Package pdf extracts pre-rasterised PDF uploads by running each page
// image through the vision model.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Prompt asks the vision model for a transcription of one page.
const Prompt = "Transcribe all text on this document page. Preserve the reading order."

// DefaultMaxConcurrency bounds the parallel per-page OCR calls.
const DefaultMaxConcurrency = 5

// Extractor handles PDF uploads. Rasterisation happens upstream: the
// upload carries one image per page and each page is OCRed through the
// vision model on a bounded worker group.
type Extractor struct {
	vision         driven.VisionModel
	maxConcurrency int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithMaxConcurrency sets the per-page OCR concurrency bound.
func WithMaxConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// New creates a new PDF extractor.
func New(vision driven.VisionModel, opts ...Option) *Extractor {
	e := &Extractor{
		vision:         vision,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ContentType returns the content type this extractor handles.
func (e *Extractor) ContentType() domain.ContentType {
	return domain.ContentTypePDF
}

// Extract OCRs every page in parallel and merges the successful pages in
// page order. A page failure is recorded in its PageResult rather than
// substituted into the merged text, so callers always know which pages
// are missing.
func (e *Extractor) Extract(ctx context.Context, upload *domain.Upload) (string, []domain.PageResult, error) {
	if upload == nil || len(upload.Pages) == 0 {
		return "", nil, fmt.Errorf("%w: pdf upload has no rasterised pages", domain.ErrInvalidInput)
	}
	if e.vision == nil {
		return "", nil, domain.ErrVisionUnavailable
	}

	results := make([]domain.PageResult, len(upload.Pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	for i, page := range upload.Pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := e.vision.Describe(ctx, page, Prompt)
			if err != nil {
				results[i] = domain.PageResult{
					Page: i,
					Err:  fmt.Errorf("%w: page %d: %v", domain.ErrExtractionFailed, i, err),
				}
				return nil
			}
			results[i] = domain.PageResult{Page: i, Text: text}
			return nil
		})
	}

	// Workers record failures per page instead of returning them, so the
	// group only fails on context cancellation.
	if err := g.Wait(); err != nil {
		return "", nil, fmt.Errorf("page extraction: %w", err)
	}

	var pages []string
	for _, r := range results {
		if r.Err == nil && strings.TrimSpace(r.Text) != "" {
			pages = append(pages, r.Text)
		}
	}

	return strings.Join(pages, "\n\n"), results, nil
}
