package driving

import (
	"context"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	// DocumentID is the stored document's id.
	DocumentID string

	// FileHash is the content fingerprint of the stored text.
	FileHash string

	// ChunkCount is the number of chunks written.
	ChunkCount int

	// FailedPages lists pages whose extraction failed. The document is
	// still stored from the pages that succeeded.
	FailedPages []domain.PageResult
}

// Ingestor stores uploads as chunked, searchable documents.
type Ingestor interface {
	// Ingest extracts, chunks and stores one upload under the given
	// session scope. An empty documentID generates one. Storing a second
	// document with identical content replaces the previous copy.
	Ingest(ctx context.Context, session domain.SessionContext, documentID string, upload *domain.Upload) (*IngestResult, error)
}
