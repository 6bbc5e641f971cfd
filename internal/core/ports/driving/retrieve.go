package driving

import (
	"context"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// Retriever ranks stored chunks against a query.
type Retriever interface {
	// Retrieve returns up to TopK chunks visible to the session, ordered
	// by keyword-overlap score. Session-owned chunks always outrank
	// reference-library chunks; the reference pool only fills the
	// remainder when the session pool runs short.
	Retrieve(ctx context.Context, session domain.SessionContext, query string, opts domain.RetrieveOptions) ([]domain.RetrievedChunk, error)
}
