package driven

import "github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"

// Chunker splits extracted document text into retrievable chunks.
type Chunker interface {
	// Chunk splits text into overlapping word windows tagged with the
	// owning document id. Empty or whitespace-only text yields no chunks.
	Chunk(documentID, text string) []domain.Chunk
}
