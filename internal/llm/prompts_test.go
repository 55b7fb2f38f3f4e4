package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompts(t *testing.T) {
	p, err := SerpAnalysisPrompt("why is my battery draining", "[reference:1] Battery tips: reduce brightness")
	require.NoError(t, err)
	assert.Contains(t, p, "why is my battery draining")
	assert.Contains(t, p, "[reference:1] Battery tips")

	p, err = WebRetrievalPrompt("q", "ctx")
	require.NoError(t, err)
	assert.Contains(t, p, "Passages:")

	p, err = CondensedQuestionPrompt("Human: hi\nAI: hello", "what about the fan?")
	require.NoError(t, err)
	assert.Contains(t, p, "what about the fan?")
	assert.Contains(t, p, "Human: hi")

	p, err = SummaryPrompt("They discussed batteries.", "Human: and fans?")
	require.NoError(t, err)
	assert.Contains(t, p, "They discussed batteries.")

	p, err = RelatedQuestionsPrompt("laptop overheating")
	require.NoError(t, err)
	assert.Contains(t, p, `"related_queries"`)
	assert.Contains(t, p, "laptop overheating")
}
