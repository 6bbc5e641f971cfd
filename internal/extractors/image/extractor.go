// Package image extracts image uploads by describing them with the
// vision model.
package image

import (
	"context"
	"fmt"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Prompt steers the vision model toward transcription over description.
const Prompt = "Describe this image in detail and transcribe any text visible in it."

// Extractor handles image uploads via the vision model.
type Extractor struct {
	vision driven.VisionModel
}

// New creates a new image extractor.
func New(vision driven.VisionModel) *Extractor {
	return &Extractor{vision: vision}
}

// ContentType returns the content type this extractor handles.
func (e *Extractor) ContentType() domain.ContentType {
	return domain.ContentTypeImage
}

// Extract describes the image as text via the vision model.
func (e *Extractor) Extract(ctx context.Context, upload *domain.Upload) (string, []domain.PageResult, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", nil, fmt.Errorf("%w: image upload has no data", domain.ErrInvalidInput)
	}
	if e.vision == nil {
		return "", nil, domain.ErrVisionUnavailable
	}

	text, err := e.vision.Describe(ctx, upload.Data, Prompt)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	return text, nil, nil
}
