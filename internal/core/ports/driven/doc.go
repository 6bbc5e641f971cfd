// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: document and chunk persistence
//   - Chunker: splits extracted text into retrievable chunks
//   - Extractor: turns an upload into document text
//   - ExtractorRegistry: selects the extractor for a content type
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VisionModel: OCR/description of images and PDF pages. Without it,
//     pdf and image ingestion are disabled.
//   - ChatModel: conversational answers. Without it, retrieval results are
//     shown raw instead of being woven into an answer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
