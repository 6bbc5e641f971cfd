package driven

import (
	"context"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite with the stable documents/chunks schema.
type DocumentStore interface {
	// SaveDocument upserts a document row and all of its chunks in a
	// single transaction. A crash mid-write never leaves a document
	// without its chunks. Upserts are keyed by primary key id, so
	// re-ingesting the same id replaces rows instead of duplicating.
	SaveDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ChunksForSession returns all chunks visible to a session, joined
	// with their owning document's display fields. Global documents
	// (empty session id) are visible everywhere; session-scoped ones
	// only within their own session. Ordered by chunk id so downstream
	// tie-breaking is deterministic.
	ChunksForSession(ctx context.Context, session domain.SessionContext) ([]domain.ChunkRecord, error)

	// ListDocuments returns the documents visible to a session.
	ListDocuments(ctx context.Context, session domain.SessionContext) ([]domain.Document, error)

	// Counts reports the number of document and chunk rows.
	Counts(ctx context.Context) (documents, chunks int, err error)

	// DeleteAll truncates both tables. Administrative reset only,
	// not part of steady-state operation.
	DeleteAll(ctx context.Context) error
}
