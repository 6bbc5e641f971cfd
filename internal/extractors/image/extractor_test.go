package image

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// mockVision implements driven.VisionModel for testing.
type mockVision struct {
	text   string
	err    error
	prompt string
}

func (m *mockVision) Describe(_ context.Context, _ []byte, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func imageUpload() *domain.Upload {
	return &domain.Upload{
		Filename:    "statement.png",
		ContentType: domain.ContentTypeImage,
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	}
}

func TestExtract_DescribesImage(t *testing.T) {
	vision := &mockVision{text: "A bank statement showing a balance of $1,200."}
	e := New(vision)

	text, pages, err := e.Extract(context.Background(), imageUpload())
	require.NoError(t, err)
	assert.Equal(t, "A bank statement showing a balance of $1,200.", text)
	assert.Nil(t, pages)
	assert.Equal(t, Prompt, vision.prompt)
}

func TestExtract_NoVisionModel(t *testing.T) {
	e := New(nil)

	_, _, err := e.Extract(context.Background(), imageUpload())
	assert.True(t, errors.Is(err, domain.ErrVisionUnavailable))
}

func TestExtract_EmptyUpload(t *testing.T) {
	e := New(&mockVision{})

	_, _, err := e.Extract(context.Background(), &domain.Upload{Filename: "empty.png"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestExtract_VisionFailure(t *testing.T) {
	e := New(&mockVision{err: errors.New("model timeout")})

	_, _, err := e.Extract(context.Background(), imageUpload())
	assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
}
