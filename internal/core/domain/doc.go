// Package domain defines the core business entities for the loan assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored document with provenance metadata
//   - Chunk: A retrievable unit within a document
//   - Upload: Opaque bytes handed to the ingestion pipeline
//   - RetrievedChunk: A scored chunk returned by retrieval
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
