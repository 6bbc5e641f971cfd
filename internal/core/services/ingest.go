package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driving"
	"github.com/shiro-FFFFFF/loan-assistant/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService orchestrates the ingestion pipeline: extract the upload's
// text, chunk it and store document plus chunks in one write.
type IngestService struct {
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	docStore   driven.DocumentStore
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	docStore driven.DocumentStore,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunker:    chunker,
		docStore:   docStore,
	}
}

// Ingest extracts, chunks and stores one upload under the given session
// scope. The session is an explicit value on every call, never ambient
// state. Pages that fail extraction are reported in the result; the
// document is stored from the pages that succeeded.
func (s *IngestService) Ingest(
	ctx context.Context, session domain.SessionContext, documentID string, upload *domain.Upload,
) (*driving.IngestResult, error) {
	if upload == nil || upload.Filename == "" {
		return nil, fmt.Errorf("%w: upload requires a filename", domain.ErrInvalidInput)
	}
	if !upload.ContentType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, upload.ContentType)
	}

	if documentID == "" {
		documentID = uuid.NewString()
	}

	logger.Section("Ingestion")
	logger.Debug("Document: %s (%s, type=%s, session=%q)",
		documentID, upload.Filename, upload.ContentType, session.ID)

	extractor, err := s.extractors.Get(upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("select extractor: %w", err)
	}

	text, pages, err := extractor.Extract(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", upload.Filename, err)
	}

	var failed []domain.PageResult
	for _, p := range pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 {
		logger.Warn("Extraction: %d of %d pages failed for %s",
			len(failed), len(pages), upload.Filename)
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", upload.Filename, domain.ErrEmptyContent)
	}

	doc := &domain.Document{
		ID:          documentID,
		Filename:    upload.Filename,
		Content:     text,
		ContentType: upload.ContentType,
		FileHash:    domain.ContentHash(text),
		Metadata:    cloneMetadata(upload.Metadata),
		SessionID:   session.ID,
	}

	chunks := s.chunker.Chunk(documentID, text)
	logger.Debug("Chunked into %d chunks", len(chunks))

	if err := s.docStore.SaveDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("store document %s: %w", documentID, err)
	}

	logger.Info("Ingested %s: %d chunks, hash %s", upload.Filename, len(chunks), doc.FileHash)

	return &driving.IngestResult{
		DocumentID:  documentID,
		FileHash:    doc.FileHash,
		ChunkCount:  len(chunks),
		FailedPages: failed,
	}, nil
}

// cloneMetadata copies the caller's metadata so later mutation by the
// caller cannot alias into the stored document.
func cloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	clone := make(map[string]any, len(metadata))
	for k, v := range metadata {
		clone[k] = v
	}
	return clone
}
