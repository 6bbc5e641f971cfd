package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/storage/memory"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// newTestLibrary wires a library service over a real ingest pipeline and
// an in-memory store.
func newTestLibrary(t *testing.T) (*LibraryService, driven.DocumentStore) {
	t.Helper()

	store := memory.NewDocumentStore()
	return NewLibraryService(newTestIngestService(t, store)), store
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadDirectory(t *testing.T) {
	svc, store := newTestLibrary(t)
	dir := t.TempDir()

	writeFile(t, dir, "loan_basics.txt", "loan basics guide content")
	writeFile(t, dir, "mortgage_types.txt", "mortgage types guide content")
	writeFile(t, dir, "notes.md", "not a reference file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o750))

	report, err := svc.LoadDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"loan_basics.txt", "mortgage_types.txt"}, report.Loaded)
	assert.Empty(t, report.Failed)

	// Reference documents land in the global scope with provenance.
	doc, err := store.GetDocument(context.Background(), "ref_loan_basics")
	require.NoError(t, err)
	assert.Empty(t, doc.SessionID)
	assert.Equal(t, domain.SourceReferenceLibrary, doc.Metadata[domain.MetadataSource])
	assert.Equal(t, "loan_guide", doc.Metadata["file_type"])
	assert.True(t, doc.IsReference())
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	svc, _ := newTestLibrary(t)

	_, err := svc.LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadDirectory_CollectsFailures(t *testing.T) {
	svc, _ := newTestLibrary(t)
	dir := t.TempDir()

	writeFile(t, dir, "good.txt", "usable guide content")
	writeFile(t, dir, "empty.txt", "   ")

	report, err := svc.LoadDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"good.txt"}, report.Loaded)
	require.Contains(t, report.Failed, "empty.txt")
	assert.ErrorIs(t, report.Failed["empty.txt"], domain.ErrEmptyContent)
}

func TestLoadDirectory_ReloadReplaces(t *testing.T) {
	svc, store := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	writeFile(t, dir, "guide.txt", "first version")
	_, err := svc.LoadDirectory(ctx, dir)
	require.NoError(t, err)

	writeFile(t, dir, "guide.txt", "second version")
	_, err = svc.LoadDirectory(ctx, dir)
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "ref_guide")
	require.NoError(t, err)
	assert.Equal(t, "second version", doc.Content)

	documents, _, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, documents)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	svc, store := newTestLibrary(t)
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, dir)
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "guide.txt", "watched guide content")

	assert.Eventually(t, func() bool {
		_, err := store.GetDocument(context.Background(), "ref_guide")
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestReferenceDocumentID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"loan_basics.txt", "ref_loan_basics"},
		{"Mortgage Guide.txt", "ref_Mortgage Guide"},
		{"noext", "ref_noext"},
	}

	for _, tt := range tests {
		if got := ReferenceDocumentID(tt.filename); got != tt.want {
			t.Errorf("ReferenceDocumentID(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
