package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driving"
	"github.com/shiro-FFFFFF/loan-assistant/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// systemPrompt frames every conversation with the chat model.
const systemPrompt = `You are a helpful loan assistant. Answer questions about loans, ` +
	`mortgages and interest rates using the provided document context when it is ` +
	`relevant. If the context does not contain the answer, say so instead of guessing.`

// AssistantService answers questions by retrieving document context and
// asking the chat model. The chat model is optional: without one the
// service still retrieves sources and returns ErrChatUnavailable so the
// caller can fall back to showing raw chunks.
type AssistantService struct {
	retriever driving.Retriever
	chat      driven.ChatModel
	opts      domain.RetrieveOptions
}

// NewAssistantService creates a new assistant service.
// The chat parameter is optional (can be nil).
func NewAssistantService(retriever driving.Retriever, chat driven.ChatModel) *AssistantService {
	return &AssistantService{retriever: retriever, chat: chat}
}

// SetRetrieveOptions overrides the retrieval options used for context.
func (s *AssistantService) SetRetrieveOptions(opts domain.RetrieveOptions) {
	s.opts = opts
}

// Ask answers one question for a session, grounded on retrieved chunks.
func (s *AssistantService) Ask(
	ctx context.Context, session domain.SessionContext, question string, history []driving.Turn,
) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	sources, err := s.retriever.Retrieve(ctx, session, question, s.opts)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if s.chat == nil {
		logger.Debug("No chat model configured, returning sources only")
		return &driving.Answer{Sources: sources}, domain.ErrChatUnavailable
	}

	messages := buildMessages(question, sources, history)
	logger.Debug("Chat request: %d messages, %d source chunks, model %s",
		len(messages), len(sources), s.chat.ModelName())

	text, err := s.chat.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		// Sources still go back so the boundary can degrade gracefully.
		return &driving.Answer{Sources: sources}, fmt.Errorf("chat completion: %w", err)
	}

	return &driving.Answer{Text: text, Sources: sources}, nil
}

// buildMessages assembles the system prompt with retrieved context, the
// session's conversation history and the new question.
func buildMessages(
	question string, sources []domain.RetrievedChunk, history []driving.Turn,
) []driven.ChatMessage {
	var b strings.Builder
	b.WriteString(systemPrompt)

	if len(sources) > 0 {
		b.WriteString("\n\nContext from uploaded and reference documents:\n")
		for i, src := range sources {
			fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, src.Filename, src.Chunk.Text)
		}
	} else {
		b.WriteString("\n\nNo relevant documents were found for this question.")
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: b.String()})
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})

	return messages
}
