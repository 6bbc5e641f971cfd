// Package chunker provides fixed-size word-window text chunking.
package chunker

import (
	"fmt"
	"strings"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// DefaultChunkSize is the default window size in words.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of words shared between
// consecutive windows.
const DefaultOverlap = 50

// Chunker splits document text into overlapping word windows.
// It implements the driven.Chunker interface.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
// An overlap equal to or larger than the chunk size would produce a
// non-advancing window, so that configuration is rejected.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, c.overlap, c.chunkSize)
	}

	return c, nil
}

// Chunk splits text into overlapping word windows. Words are whitespace
// separated; each window's words are rejoined with single spaces. Empty or
// whitespace-only text yields no chunks. The final window may be shorter
// than the chunk size.
func (c *Chunker) Chunk(documentID, text string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, (len(words)+step-1)/step)

	index := 0
	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, index),
			DocumentID: documentID,
			Text:       strings.Join(words[start:end], " "),
			Index:      index,
		})
		index++
	}

	return chunks
}
