// Package memory provides in-memory store implementations used in tests
// and for ephemeral runs where no database file is wanted.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It mirrors the SQLite store's semantics: upsert by id, content-hash
// displacement, and session-scoped visibility.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document and its chunks.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Displace any prior document holding the same content hash.
	for id, existing := range s.documents {
		if id != doc.ID && existing.FileHash == doc.FileHash {
			delete(s.documents, id)
			delete(s.chunks, id)
		}
	}

	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ChunksForSession returns all chunks visible to a session.
func (s *DocumentStore) ChunksForSession(
	_ context.Context, session domain.SessionContext,
) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.ChunkRecord
	for id, doc := range s.documents {
		if doc.SessionID != "" && doc.SessionID != session.ID {
			continue
		}
		for _, chunk := range s.chunks[id] {
			records = append(records, domain.ChunkRecord{
				Chunk:       chunk,
				Filename:    doc.Filename,
				ContentType: doc.ContentType,
				Metadata:    doc.Metadata,
				SessionID:   doc.SessionID,
				IsReference: doc.IsReference(),
			})
		}
	}

	// Match the SQLite store's deterministic ordering.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Chunk.ID < records[j].Chunk.ID
	})

	return records, nil
}

// ListDocuments returns the documents visible to a session.
func (s *DocumentStore) ListDocuments(
	_ context.Context, session domain.SessionContext,
) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.SessionID != "" && doc.SessionID != session.ID {
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	return docs, nil
}

// Counts reports the number of documents and chunks.
func (s *DocumentStore) Counts(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunkCount := 0
	for _, chunks := range s.chunks {
		chunkCount += len(chunks)
	}
	return len(s.documents), chunkCount, nil
}

// DeleteAll removes every document and chunk.
func (s *DocumentStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]domain.Document)
	s.chunks = make(map[string][]domain.Chunk)
	return nil
}
