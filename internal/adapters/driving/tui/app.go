// Package tui provides the interactive chat interface built on Bubble
// Tea. It drives the Assistant port: each submitted question is answered
// with retrieved document context and appended to the transcript.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driving"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	sessionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// answerMsg carries one completed Ask call back into the update loop.
type answerMsg struct {
	question string
	answer   *driving.Answer
	err      error
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	assistant driving.Assistant
	session   domain.SessionContext
	modelName string

	input    textinput.Model
	viewport viewport.Model
	history  []driving.Turn
	status   string
	waiting  bool
	ready    bool
}

// New creates a new chat model. modelName is shown in the header and may
// be empty when no chat model is configured.
func New(assistant driving.Assistant, session domain.SessionContext, modelName string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your loan documents"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		assistant: assistant,
		session:   session,
		modelName: modelName,
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "Type a question and press Enter. Ctrl+C to quit.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 + 1 // header, input frame, input line, status
		height := msg.Height - reserved - ch
		if height < 3 {
			height = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = height
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.history = append(m.history, driving.Turn{Role: "user", Content: question})
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.ask(question, m.history[:len(m.history)-1])
		}

	case answerMsg:
		m.waiting = false
		m.history = append(m.history, driving.Turn{
			Role:    "assistant",
			Content: m.renderAnswer(msg),
		})
		if msg.err != nil && !errors.Is(msg.err, domain.ErrChatUnavailable) {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
		} else {
			m.status = "Type a question and press Enter. Ctrl+C to quit."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Loan Assistant")
	session := sessionStyle.Render(m.sessionLine())
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)

	return header + "\n" + session + "\n" + chat + "\n" + input + "\n" + status
}

// ask runs one Ask call off the update loop.
func (m Model) ask(question string, history []driving.Turn) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.assistant.Ask(context.Background(), m.session, question, history)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// renderAnswer turns an Ask outcome into transcript text. Without a chat
// model the retrieved chunks themselves become the reply.
func (m Model) renderAnswer(msg answerMsg) string {
	switch {
	case errors.Is(msg.err, domain.ErrChatUnavailable):
		var b strings.Builder
		b.WriteString("Chat model not configured. Best matching chunks:\n")
		if msg.answer == nil || len(msg.answer.Sources) == 0 {
			b.WriteString("  (no matching documents)")
			return b.String()
		}
		for i, src := range msg.answer.Sources {
			fmt.Fprintf(&b, "  [%d] %s (score %d): %s\n", i+1, src.Filename, src.Score, truncate(src.Chunk.Text, 160))
		}
		return strings.TrimRight(b.String(), "\n")
	case msg.err != nil:
		return "Sorry, I could not answer that: " + msg.err.Error()
	default:
		return msg.answer.Text
	}
}

// renderTranscript renders the conversation history.
func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return "No messages yet. Ask about interest rates, terms or any ingested document."
	}

	var b strings.Builder
	for _, turn := range m.history {
		if turn.Role == "user" {
			b.WriteString(userStyle.Render("You: "))
		} else {
			b.WriteString(assistantStyle.Render("Assistant: "))
		}
		b.WriteString(turn.Content)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) sessionLine() string {
	name := m.modelName
	if name == "" {
		name = "retrieval only"
	}
	scope := m.session.ID
	if scope == "" {
		scope = "global"
	}
	return fmt.Sprintf("session: %s | model: %s", scope, name)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

// Run starts the chat interface and blocks until the user quits.
func Run(assistant driving.Assistant, session domain.SessionContext, modelName string) error {
	program := tea.NewProgram(New(assistant, session, modelName), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run chat interface: %w", err)
	}
	return nil
}
