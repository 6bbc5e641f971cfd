// Package plaintext extracts text uploads as-is.
package plaintext

import (
	"context"
	"unicode/utf8"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text uploads.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// ContentType returns the content type this extractor handles.
func (e *Extractor) ContentType() domain.ContentType {
	return domain.ContentTypeText
}

// Extract returns the upload bytes as text. Text uploads are single
// units, so there are no per-page results.
func (e *Extractor) Extract(_ context.Context, upload *domain.Upload) (string, []domain.PageResult, error) {
	if upload == nil {
		return "", nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(upload.Data) {
		return "", nil, domain.ErrInvalidInput
	}
	return string(upload.Data), nil, nil
}
