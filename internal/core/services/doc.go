// Package services implements the driving port interfaces.
// Services contain the core business logic: ingestion orchestration,
// keyword retrieval and reranking, the question-answering assistant and
// the reference-library loader. They orchestrate calls to driven ports
// (adapters) and never touch storage or HTTP directly.
package services
