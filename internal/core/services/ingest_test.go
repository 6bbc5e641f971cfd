package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/storage/memory"
	"github.com/shiro-FFFFFF/loan-assistant/internal/chunker"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockExtractor implements driven.Extractor for testing. By default it
// treats the upload data as plain text.
type mockExtractor struct {
	contentType domain.ContentType
	text        string
	pages       []domain.PageResult
	err         error
}

func (m *mockExtractor) ContentType() domain.ContentType {
	return m.contentType
}

func (m *mockExtractor) Extract(_ context.Context, upload *domain.Upload) (string, []domain.PageResult, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	if m.text != "" || m.pages != nil {
		return m.text, m.pages, nil
	}
	return string(upload.Data), nil, nil
}

// mockRegistry implements driven.ExtractorRegistry for testing.
type mockRegistry struct {
	extractors map[domain.ContentType]driven.Extractor
}

func newMockRegistry(extractors ...driven.Extractor) *mockRegistry {
	r := &mockRegistry{extractors: make(map[domain.ContentType]driven.Extractor)}
	for _, e := range extractors {
		r.extractors[e.ContentType()] = e
	}
	return r
}

func (m *mockRegistry) Get(contentType domain.ContentType) (driven.Extractor, error) {
	e, ok := m.extractors[contentType]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return e, nil
}

// newTestIngestService wires an ingest service over an in-memory store.
func newTestIngestService(t *testing.T, store driven.DocumentStore, extractors ...driven.Extractor) *IngestService {
	t.Helper()

	if len(extractors) == 0 {
		extractors = []driven.Extractor{&mockExtractor{contentType: domain.ContentTypeText}}
	}
	c, err := chunker.New()
	require.NoError(t, err)
	return NewIngestService(newMockRegistry(extractors...), c, store)
}

func textUpload(filename, content string) *domain.Upload {
	return &domain.Upload{
		Filename:    filename,
		ContentType: domain.ContentTypeText,
		Data:        []byte(content),
	}
}

func TestIngest_StoresDocumentAndChunks(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(t, store)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, domain.SessionContext{ID: "sess-1"}, "doc1",
		textUpload("agreement.txt", "The interest rate is 5.5% annually."))
	require.NoError(t, err)

	assert.Equal(t, "doc1", result.DocumentID)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, domain.ContentHash("The interest rate is 5.5% annually."), result.FileHash)
	assert.Empty(t, result.FailedPages)

	doc, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "agreement.txt", doc.Filename)
	assert.Equal(t, "sess-1", doc.SessionID)

	records, err := store.ChunksForSession(ctx, domain.SessionContext{ID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ChunkID("doc1", 0), records[0].Chunk.ID)
}

func TestIngest_GeneratesDocumentID(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(t, store)

	result, err := svc.Ingest(context.Background(), domain.SessionContext{}, "",
		textUpload("a.txt", "some content"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.DocumentID)
}

func TestIngest_RejectsMissingFilename(t *testing.T) {
	svc := newTestIngestService(t, memory.NewDocumentStore())

	_, err := svc.Ingest(context.Background(), domain.SessionContext{}, "doc1",
		&domain.Upload{ContentType: domain.ContentTypeText})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.Ingest(context.Background(), domain.SessionContext{}, "doc1", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestIngest_RejectsUnknownContentType(t *testing.T) {
	svc := newTestIngestService(t, memory.NewDocumentStore())

	upload := textUpload("a.bin", "data")
	upload.ContentType = "binary"
	_, err := svc.Ingest(context.Background(), domain.SessionContext{}, "doc1", upload)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
}

func TestIngest_RejectsEmptyExtraction(t *testing.T) {
	svc := newTestIngestService(t, memory.NewDocumentStore())

	_, err := svc.Ingest(context.Background(), domain.SessionContext{}, "doc1",
		textUpload("empty.txt", "   \n\t  "))
	assert.True(t, errors.Is(err, domain.ErrEmptyContent))
}

func TestIngest_PropagatesExtractorError(t *testing.T) {
	failing := &mockExtractor{
		contentType: domain.ContentTypeImage,
		err:         domain.ErrExtractionFailed,
	}
	svc := newTestIngestService(t, memory.NewDocumentStore(), failing)

	upload := &domain.Upload{
		Filename:    "scan.png",
		ContentType: domain.ContentTypeImage,
		Data:        []byte{0x89},
	}
	_, err := svc.Ingest(context.Background(), domain.SessionContext{}, "doc1", upload)
	assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
}

func TestIngest_SurfacesFailedPages(t *testing.T) {
	pdf := &mockExtractor{
		contentType: domain.ContentTypePDF,
		text:        "page one text",
		pages: []domain.PageResult{
			{Page: 0, Text: "page one text"},
			{Page: 1, Err: domain.ErrExtractionFailed},
		},
	}
	store := memory.NewDocumentStore()
	svc := newTestIngestService(t, store, pdf)

	upload := &domain.Upload{
		Filename:    "statement.pdf",
		ContentType: domain.ContentTypePDF,
		Pages:       [][]byte{{0x01}, {0x02}},
	}
	result, err := svc.Ingest(context.Background(), domain.SessionContext{}, "doc1", upload)
	require.NoError(t, err)

	// The failed page is reported, not spliced into the stored content.
	require.Len(t, result.FailedPages, 1)
	assert.Equal(t, 1, result.FailedPages[0].Page)

	doc, err := store.GetDocument(context.Background(), "doc1")
	require.NoError(t, err)
	assert.Equal(t, "page one text", doc.Content)
}

func TestIngest_ClonesMetadata(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestIngestService(t, store)

	upload := textUpload("a.txt", "content")
	upload.Metadata = map[string]any{"file_type": "loan_guide"}

	_, err := svc.Ingest(context.Background(), domain.SessionContext{}, "doc1", upload)
	require.NoError(t, err)

	upload.Metadata["file_type"] = "mutated"

	doc, err := store.GetDocument(context.Background(), "doc1")
	require.NoError(t, err)
	assert.Equal(t, "loan_guide", doc.Metadata["file_type"])
}
