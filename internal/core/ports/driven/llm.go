package driven

import "context"

// ChatModel provides conversational completions from a hosted model.
// This is an optional service - when nil, the assistant degrades to
// returning retrieved chunks without a generated answer.
type ChatModel interface {
	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the hosted model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VisionModel describes images as text. It is the OCR source for image
// and PDF-page ingestion. Optional - when nil, only text uploads work.
type VisionModel interface {
	// Describe returns a textual description of an image.
	// The prompt steers the description (e.g. "transcribe this page").
	Describe(ctx context.Context, image []byte, prompt string) (string, error)
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
