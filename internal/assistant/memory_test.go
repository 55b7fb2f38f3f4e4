package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMemory_StartsWithGreeting(t *testing.T) {
	m, err := NewConversationMemory(&stubLLM{}, nil)
	require.NoError(t, err)
	assert.Equal(t, GreetingStub, m.History())
}

func TestConversationMemory_RecentTurnsKeptVerbatim(t *testing.T) {
	m, err := NewConversationMemory(&stubLLM{}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	m.SaveTurn(ctx, "q1", "a1")
	m.SaveTurn(ctx, "q2", "a2")

	h := m.History()
	assert.Contains(t, h, GreetingStub)
	assert.Contains(t, h, "Human: q1\nAI: a1")
	assert.Contains(t, h, "Human: q2\nAI: a2")
}

func TestConversationMemory_OldTurnsFoldIntoSummary(t *testing.T) {
	client := &stubLLM{responses: map[string]string{
		"New summary:": "They discussed q1.",
	}}
	m, err := NewConversationMemory(client, nil)
	require.NoError(t, err)
	ctx := context.Background()

	m.SaveTurn(ctx, "q1", "a1 https://example.com/page")
	m.SaveTurn(ctx, "q2", "a2")
	m.SaveTurn(ctx, "q3", "a3")

	h := m.History()
	assert.Contains(t, h, "They discussed q1.")
	assert.NotContains(t, h, "Human: q1")
	assert.Contains(t, h, "Human: q2")
	assert.Contains(t, h, "Human: q3")

	// The evicted answer went into the summary prompt with its URL stripped.
	require.NotEmpty(t, client.prompts)
	last := client.prompts[len(client.prompts)-1]
	assert.Contains(t, last, "Human: q1")
	assert.NotContains(t, last, "https://example.com/page")
}

func TestConversationMemory_SummaryFailureKeepsPrevious(t *testing.T) {
	m, err := NewConversationMemory(&stubLLM{err: fmt.Errorf("down")}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	m.SaveTurn(ctx, "q1", "a1")
	m.SaveTurn(ctx, "q2", "a2")
	m.SaveTurn(ctx, "q3", "a3")

	assert.Contains(t, m.History(), GreetingStub)
}

func TestConversationMemory_Reset(t *testing.T) {
	m, err := NewConversationMemory(&stubLLM{}, nil)
	require.NoError(t, err)

	m.SaveTurn(context.Background(), "q1", "a1")
	m.Reset()
	assert.Equal(t, GreetingStub, m.History())
}

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "see  and", RemoveLinks("see https://a.example/x and www.b.example/y"))
	assert.Equal(t, "no links here", RemoveLinks("no links here"))
}
