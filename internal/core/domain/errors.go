package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown content type.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrEmptyContent indicates a document with no extractable text.
	ErrEmptyContent = errors.New("empty content")

	// ErrChatUnavailable indicates the chat model is not configured.
	// Retrieval still works; answers requiring the model are disabled.
	ErrChatUnavailable = errors.New("chat model unavailable")

	// ErrVisionUnavailable indicates the vision model is not configured.
	// PDF and image ingestion are disabled without it.
	ErrVisionUnavailable = errors.New("vision model unavailable")

	// ErrExtractionFailed indicates the upstream extraction call failed
	// for every page of an upload.
	ErrExtractionFailed = errors.New("extraction failed")
)
