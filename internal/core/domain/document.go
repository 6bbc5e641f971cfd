package domain

import (
	"crypto/md5" //nolint:gosec // dedup fingerprint, not security-sensitive
	"encoding/hex"
	"fmt"
	"time"
)

// ContentType identifies how a document's text was produced.
type ContentType string

const (
	// ContentTypeText is raw decoded file text.
	ContentTypeText ContentType = "text"

	// ContentTypePDF is text produced from PDF pages by the vision model.
	ContentTypePDF ContentType = "pdf"

	// ContentTypeImage is a vision-model description of an image.
	ContentTypeImage ContentType = "image"
)

// Valid reports whether the content type is one the pipeline chunks.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeText, ContentTypePDF, ContentTypeImage:
		return true
	default:
		return false
	}
}

// Metadata keys recognised across the pipeline.
const (
	// MetadataSource marks where a document came from.
	MetadataSource = "source"

	// SourceReferenceLibrary is the MetadataSource value for the static
	// reference library loaded at setup time.
	SourceReferenceLibrary = "reference_library"
)

// Document represents a stored document with provenance metadata.
// For PDFs and images, Content is the upstream vision model's textual
// description, not raw bytes.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the display name. Not unique.
	Filename string

	// Content is the full extracted text.
	Content string

	// ContentType is one of text, pdf or image.
	ContentType ContentType

	// UploadTime is when the document was stored.
	UploadTime time.Time

	// FileHash is the content fingerprint used for duplicate detection.
	// Unique across all documents; a re-upload with identical content
	// replaces rather than duplicates.
	FileHash string

	// Metadata contains arbitrary key-value pairs. Recognised keys
	// include source, pages, file_size and original_filename.
	Metadata map[string]any

	// SessionID scopes the document to one chat session.
	// Empty means global/reference scope, visible to every session.
	SessionID string
}

// IsReference reports whether the document belongs to the reference library.
func (d *Document) IsReference() bool {
	src, _ := d.Metadata[MetadataSource].(string)
	return src == SourceReferenceLibrary
}

// Chunk represents a retrievable unit within a document.
type Chunk struct {
	// ID is the deterministic composite of document id and chunk index.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Text is a word-window slice of the document content.
	Text string

	// Index is the chunk's sequence position within the document.
	Index int
}

// ChunkID builds the deterministic chunk identifier. Re-ingesting a
// document under the same id produces the same chunk ids, so chunk rows
// are replaced rather than duplicated.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// ContentHash computes the dedup fingerprint of document text.
// Deterministic: identical text always yields the same fingerprint.
func ContentHash(content string) string {
	sum := md5.Sum([]byte(content)) //nolint:gosec // dedup key only
	return hex.EncodeToString(sum[:])
}

// SessionContext identifies the caller's chat session. It is passed
// explicitly into every store and retrieve call; there is no ambient
// session state.
type SessionContext struct {
	// ID is the session identifier. Empty denotes the global scope used
	// for reference-library ingestion.
	ID string
}

// Global reports whether the context denotes the global/reference scope.
func (s SessionContext) Global() bool {
	return s.ID == ""
}
