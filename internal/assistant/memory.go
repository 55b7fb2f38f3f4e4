package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/llm"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
)

// GreetingStub seeds the conversation summary before any turn happens.
const GreetingStub = "The human and AI greet each other to start a conversation."

// recentTurns is how many raw turns are kept verbatim alongside the summary.
const recentTurns = 2

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// RemoveLinks strips every URL from text. Summaries read better without
// citation links in them.
func RemoveLinks(text string) string {
	return strings.TrimSpace(urlPattern.ReplaceAllString(text, ""))
}

// Turn is one user question and the assistant's answer.
type Turn struct {
	Input  string
	Answer string
}

// ConversationMemory keeps an LLM-maintained running summary of the
// conversation plus the most recent turns verbatim. Old turns are folded
// into the summary as new ones arrive.
type ConversationMemory struct {
	llm    llm.Client
	logger *logger.Logger

	mu      sync.Mutex
	summary string
	turns   []Turn
}

// NewConversationMemory creates a memory seeded with the greeting stub.
func NewConversationMemory(client llm.Client, lgr *logger.Logger) (*ConversationMemory, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &ConversationMemory{
		llm:     client,
		logger:  lgr.Named("memory"),
		summary: GreetingStub,
	}, nil
}

// Reset discards all history and restores the greeting stub.
func (m *ConversationMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = GreetingStub
	m.turns = nil
}

// History renders the summary and the recent turns for prompt use.
func (m *ConversationMemory) History() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(m.summary)
	for _, t := range m.turns {
		sb.WriteString("\nHuman: ")
		sb.WriteString(t.Input)
		sb.WriteString("\nAI: ")
		sb.WriteString(t.Answer)
	}
	return sb.String()
}

// SaveTurn records a completed turn. When a turn falls out of the recent
// buffer it is folded into the summary; a summarization failure keeps the
// previous summary rather than losing the turn.
func (m *ConversationMemory) SaveTurn(ctx context.Context, input, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, Turn{Input: input, Answer: answer})
	if len(m.turns) <= recentTurns {
		return
	}

	evicted := m.turns[0]
	m.turns = m.turns[1:]

	newLines := fmt.Sprintf("Human: %s\nAI: %s", evicted.Input, RemoveLinks(evicted.Answer))
	prompt, err := llm.SummaryPrompt(m.summary, newLines)
	if err != nil {
		m.logger.Error("failed to render summary prompt", zap.Error(err))
		return
	}

	summary, err := m.llm.Complete(ctx, prompt)
	if err != nil {
		m.logger.Warn("conversation summarization failed, keeping previous summary",
			zap.Error(err))
		return
	}
	m.summary = strings.TrimSpace(summary)
}
