package domain

// DefaultTopK is the default number of chunks returned by retrieval.
const DefaultTopK = 3

// RetrieveOptions configures a retrieval call.
type RetrieveOptions struct {
	// TopK is the maximum number of chunks to return (default 3).
	TopK int

	// MinScore drops chunks scoring below the cutoff. Zero keeps the
	// always-return-something behaviour: even zero-score chunks are
	// returned when nothing overlaps the query.
	MinScore int
}

// ChunkRecord is a chunk joined with its owning document's display fields,
// as returned by the document store's read path.
type ChunkRecord struct {
	// Chunk is the stored chunk, id included. The id travels through
	// scoring so results never need to be re-resolved by text equality.
	Chunk Chunk

	// Filename is the owning document's display name.
	Filename string

	// ContentType is the owning document's content type.
	ContentType ContentType

	// Metadata is the owning document's metadata map.
	Metadata map[string]any

	// SessionID is the owning document's session scope. Empty = global.
	SessionID string

	// IsReference marks reference-library content. Reference chunks form
	// the fallback pool during reranking.
	IsReference bool
}

// RetrievedChunk is a scored chunk record returned to callers.
type RetrievedChunk struct {
	ChunkRecord

	// Score is the keyword-overlap score against the query.
	Score int
}
