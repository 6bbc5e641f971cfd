package pdf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// mockVision implements driven.VisionModel for testing. It derives each
// page's text from the page bytes and can fail selected pages.
type mockVision struct {
	mu         sync.Mutex
	failPages  map[byte]error
	inFlight   atomic.Int32
	maxSeen    int32
	callDelayC chan struct{}
}

func (m *mockVision) Describe(ctx context.Context, image []byte, _ string) (string, error) {
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	m.mu.Lock()
	if current > m.maxSeen {
		m.maxSeen = current
	}
	m.mu.Unlock()

	if m.callDelayC != nil {
		select {
		case <-m.callDelayC:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err, ok := m.failPages[image[0]]; ok {
		return "", err
	}
	return fmt.Sprintf("text of page %d", image[0]), nil
}

func pdfUpload(pageCount int) *domain.Upload {
	pages := make([][]byte, pageCount)
	for i := range pages {
		pages[i] = []byte{byte(i)}
	}
	return &domain.Upload{
		Filename:    "statement.pdf",
		ContentType: domain.ContentTypePDF,
		Pages:       pages,
	}
}

func TestExtract_MergesPagesInOrder(t *testing.T) {
	e := New(&mockVision{})

	text, pages, err := e.Extract(context.Background(), pdfUpload(3))
	require.NoError(t, err)

	assert.Equal(t, "text of page 0\n\ntext of page 1\n\ntext of page 2", text)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.Page)
		assert.NoError(t, p.Err)
	}
}

func TestExtract_FailedPageSurfacedNotMerged(t *testing.T) {
	vision := &mockVision{failPages: map[byte]error{1: errors.New("ocr timeout")}}
	e := New(vision)

	text, pages, err := e.Extract(context.Background(), pdfUpload(3))
	require.NoError(t, err)

	// Page 1's failure must not appear in the merged text.
	assert.Equal(t, "text of page 0\n\ntext of page 2", text)
	require.Len(t, pages, 3)
	assert.NoError(t, pages[0].Err)
	assert.True(t, errors.Is(pages[1].Err, domain.ErrExtractionFailed))
	assert.NoError(t, pages[2].Err)
}

func TestExtract_AllPagesFail(t *testing.T) {
	vision := &mockVision{failPages: map[byte]error{
		0: errors.New("down"),
		1: errors.New("down"),
	}}
	e := New(vision)

	text, pages, err := e.Extract(context.Background(), pdfUpload(2))
	require.NoError(t, err)
	assert.Empty(t, text)
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.Error(t, p.Err)
	}
}

func TestExtract_BoundsConcurrency(t *testing.T) {
	release := make(chan struct{})
	vision := &mockVision{callDelayC: release}
	e := New(vision, WithMaxConcurrency(2))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = e.Extract(context.Background(), pdfUpload(6))
	}()

	close(release)
	<-done

	vision.mu.Lock()
	defer vision.mu.Unlock()
	assert.LessOrEqual(t, vision.maxSeen, int32(2))
}

func TestExtract_NoVisionModel(t *testing.T) {
	e := New(nil)

	_, _, err := e.Extract(context.Background(), pdfUpload(1))
	assert.True(t, errors.Is(err, domain.ErrVisionUnavailable))
}

func TestExtract_NoPages(t *testing.T) {
	e := New(&mockVision{})

	_, _, err := e.Extract(context.Background(), &domain.Upload{
		Filename:    "empty.pdf",
		ContentType: domain.ContentTypePDF,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
