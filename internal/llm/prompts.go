package llm

import (
	"fmt"
	"strings"
	"text/template"
)

// Prompt templates for the assistant. Each answer-producing template
// instructs the model to cite sources with [reference:n] markers so the
// citation pipeline can turn them into links afterwards.

var serpAnalysisTemplate = template.Must(template.New("serp_analysis").Parse(
	`You are a technical support assistant. Below are web search results, each preceded by a [reference:n] tag, followed by a user question.

Answer the question using only the search results. Cite every claim with the [reference:n] tag of the result it came from, keeping the tag format exactly as given. If the results do not contain the answer, say you could not find it. Do not mention the search results mechanism itself.

Search results:
{{.Context}}

Question: {{.Question}}

Answer:`))

var webRetrievalTemplate = template.Must(template.New("web_retrieval").Parse(
	`You are a technical support assistant. Below are passages scraped from web pages, each preceded by a [reference:n] tag, followed by a user question.

Answer the question using only the passages. Cite every claim with the [reference:n] tag of the passage it came from, keeping the tag format exactly as given. If the passages do not contain the answer, say you could not find it.

Passages:
{{.Context}}

Question: {{.Question}}

Answer:`))

var condensedQuestionTemplate = template.Must(template.New("condensed_question").Parse(
	`Given the following conversation and a follow-up question, rephrase the follow-up question to be a standalone question that keeps all relevant context from the conversation. Return only the standalone question, nothing else.

Conversation:
{{.ChatHistory}}

Follow-up question: {{.Question}}

Standalone question:`))

var summaryTemplate = template.Must(template.New("summary").Parse(
	`Progressively summarize the conversation below, adding on to the previous summary. Keep the summary short and factual. Return only the new summary.

Current summary:
{{.Summary}}

New lines of conversation:
{{.NewLines}}

New summary:`))

var relatedQuestionsTemplate = template.Must(template.New("related_questions").Parse(
	`Generate exactly 3 short search queries related to the question below. Respond with a JSON object of the form {"related_queries": ["...", "...", "..."]} and nothing else.

Question: {{.Question}}

JSON:`))

func render(t *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}

// SerpAnalysisPrompt renders the prompt that answers a question from raw
// search-result snippets.
func SerpAnalysisPrompt(question, context string) (string, error) {
	return render(serpAnalysisTemplate, struct{ Question, Context string }{question, context})
}

// WebRetrievalPrompt renders the prompt that answers a question from
// retrieved page chunks.
func WebRetrievalPrompt(question, context string) (string, error) {
	return render(webRetrievalTemplate, struct{ Question, Context string }{question, context})
}

// CondensedQuestionPrompt renders the prompt that folds conversation history
// into a standalone question.
func CondensedQuestionPrompt(chatHistory, question string) (string, error) {
	return render(condensedQuestionTemplate, struct{ ChatHistory, Question string }{chatHistory, question})
}

// SummaryPrompt renders the running conversation summary prompt.
func SummaryPrompt(summary, newLines string) (string, error) {
	return render(summaryTemplate, struct{ Summary, NewLines string }{summary, newLines})
}

// RelatedQuestionsPrompt renders the prompt that produces related search
// queries as JSON.
func RelatedQuestionsPrompt(question string) (string, error) {
	return render(relatedQuestionsTemplate, struct{ Question string }{question})
}
