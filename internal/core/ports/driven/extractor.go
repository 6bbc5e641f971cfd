package driven

import (
	"context"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// Extractor turns an upload into document text.
// Each extractor handles one content type.
type Extractor interface {
	// ContentType returns the content type this extractor handles.
	ContentType() domain.ContentType

	// Extract produces the document text for an upload. For multi-page
	// uploads it also returns the per-page outcomes so the caller can
	// see which pages failed instead of finding error strings spliced
	// into the content.
	Extract(ctx context.Context, upload *domain.Upload) (string, []domain.PageResult, error)
}

// ExtractorRegistry selects the extractor for an upload's content type.
type ExtractorRegistry interface {
	// Get returns the extractor for a content type.
	// Returns domain.ErrUnsupportedType for unknown types.
	Get(contentType domain.ContentType) (Extractor, error)
}
