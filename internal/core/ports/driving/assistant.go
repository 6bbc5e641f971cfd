package driving

import (
	"context"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
)

// Answer is the assistant's response to one question.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the chunks the answer was grounded on.
	Sources []domain.RetrievedChunk
}

// Turn is one exchange in a session's conversation history.
type Turn struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Assistant answers questions using retrieved document context.
type Assistant interface {
	// Ask retrieves relevant chunks for the question, builds a context
	// prompt and asks the chat model. Returns domain.ErrChatUnavailable
	// when no chat model is configured; Sources are still populated so
	// the caller can fall back to showing raw chunks.
	Ask(ctx context.Context, session domain.SessionContext, question string, history []Turn) (*Answer, error)
}
