package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/citation"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/crawler"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/llm"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/vectorstore"
)

// ErrNoIndex is returned by RetrievalCall before SearchAndScrape has built
// or loaded an index for the session.
var ErrNoIndex = errors.New("no index available, run a search and scrape first")

// Searcher runs an allow-list restricted web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*types.SearchResult, error)
}

// Scraper fetches pages and returns their extracted documents plus the
// ordered list of URLs it attempted.
type Scraper interface {
	Crawl(ctx context.Context, links []string, extraExcluded []string) ([]crawler.Document, []string)
}

// Answer is the assistant's reply to one question.
type Answer struct {
	Answer  string
	Sources []string
}

// ScrapeResult reports what a SearchAndScrape run produced.
type ScrapeResult struct {
	NoLinks bool
	Message string
	Links   []string
	Chunks  int
}

// Config holds the retrieval knobs of a session.
type Config struct {
	Location       string
	KDocuments     int
	ScoreThreshold float32
}

// Assistant is one interactive session: search, scrape, index, and answer
// with citations. It is not safe for concurrent questions; one session
// serves one conversation.
type Assistant struct {
	cfg     Config
	search  Searcher
	scraper Scraper
	chunker chunker.Chunker
	manager *vectorstore.IndexManager
	llm     llm.Client
	memory  *ConversationMemory
	logger  *logger.Logger

	mu       sync.Mutex
	refIndex *citation.Index
}

// New creates a session from its collaborators.
func New(cfg Config, searcher Searcher, scraper Scraper, ck chunker.Chunker, manager *vectorstore.IndexManager, client llm.Client, lgr *logger.Logger) (*Assistant, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if scraper == nil {
		return nil, fmt.Errorf("scraper is required")
	}
	if ck == nil {
		return nil, fmt.Errorf("chunker is required")
	}
	if manager == nil {
		return nil, fmt.Errorf("index manager is required")
	}
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.Location == "" {
		return nil, fmt.Errorf("index location is required")
	}
	if cfg.KDocuments <= 0 {
		cfg.KDocuments = 4
	}
	if lgr == nil {
		lgr = logger.L()
	}

	memory, err := NewConversationMemory(client, lgr)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		cfg:     cfg,
		search:  searcher,
		scraper: scraper,
		chunker: ck,
		manager: manager,
		llm:     client,
		memory:  memory,
		logger:  lgr.Named("assistant"),
	}, nil
}

// Memory returns the session's conversation memory.
func (a *Assistant) Memory() *ConversationMemory {
	return a.memory
}

// Reformulate folds the conversation history into the question so it stands
// alone. When reformulation fails the original question is used instead.
func (a *Assistant) Reformulate(ctx context.Context, question string) string {
	prompt, err := llm.CondensedQuestionPrompt(a.memory.History(), question)
	if err != nil {
		a.logger.Error("failed to render condensed question prompt", zap.Error(err))
		return question
	}

	reformulated, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("query reformulation failed, using original question",
			zap.String("question", question),
			zap.Error(err))
		return question
	}

	reformulated = strings.TrimSpace(reformulated)
	if reformulated == "" {
		return question
	}

	a.logger.Info("query reformulated",
		zap.String("original", question),
		zap.String("reformulated", reformulated))
	return reformulated
}

// BasicCall answers the question directly from search-result snippets. With
// conversational set, the question is first reformulated against history and
// the turn is saved afterwards.
func (a *Assistant) BasicCall(ctx context.Context, query string, conversational bool) (*Answer, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}

	question := query
	if conversational {
		question = a.Reformulate(ctx, query)
	}

	results, err := a.search.Search(ctx, question)
	if err != nil {
		return nil, err
	}

	searchContext := citation.FormatContext(results)
	links := searchLinks(results)

	prompt, err := llm.SerpAnalysisPrompt(question, searchContext)
	if err != nil {
		return nil, err
	}
	answer, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer = citation.Linkify(answer, citation.IndexFromResults(results))

	if conversational {
		a.memory.SaveTurn(ctx, query, answer)
	}

	return &Answer{Answer: answer, Sources: links}, nil
}

// SearchAndScrape searches the query, crawls the result pages, and builds
// or extends the session's index from the scraped chunks. With update set
// the index at the configured location must already exist.
func (a *Assistant) SearchAndScrape(ctx context.Context, query string, update bool) (*ScrapeResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}

	results, err := a.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	links := searchLinks(results)
	if len(links) == 0 {
		return noLinksResult(query), nil
	}

	docs, attempted := a.scraper.Crawl(ctx, links, nil)
	if len(docs) == 0 {
		a.logger.Info("no pages scraped", zap.String("query", query))
		return noLinksResult(query), nil
	}

	idx := citation.NewIndex(attempted)
	chunks, err := chunker.Annotate(ctx, a.chunker, docs, idx)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return noLinksResult(query), nil
	}

	if err := a.manager.LoadOrCreate(ctx, a.cfg.Location, chunks, update); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.refIndex = idx
	a.mu.Unlock()

	a.logger.Info("scrape complete",
		zap.String("query", query),
		zap.Int("pages", len(docs)),
		zap.Int("chunks", len(chunks)))

	return &ScrapeResult{Links: attempted, Chunks: len(chunks)}, nil
}

func noLinksResult(query string) *ScrapeResult {
	return &ScrapeResult{
		NoLinks: true,
		Message: fmt.Sprintf("No links found for '%s'. Try again", query),
	}
}

// RetrievalCall answers the question from the scraped index. Citations in
// the answer are renumbered to the compact set of sources actually
// retrieved for this question.
func (a *Assistant) RetrievalCall(ctx context.Context, query string, conversational bool) (*Answer, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}

	a.mu.Lock()
	idx := a.refIndex
	a.mu.Unlock()
	if idx == nil {
		return nil, ErrNoIndex
	}

	question := query
	if conversational {
		question = a.Reformulate(ctx, query)
	}

	scored, err := a.manager.Store().Retrieve(ctx, question, a.cfg.KDocuments, a.cfg.ScoreThreshold)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(scored))
	used := make([]string, 0, len(scored))
	for _, sc := range scored {
		texts = append(texts, sc.Chunk.Text)
		used = append(used, sc.Chunk.SourceURL)
	}

	retrievalContext := strings.Join(texts, "\n\n")
	if retrievalContext == "" {
		retrievalContext = citation.NoResultsContext
	}

	prompt, err := llm.WebRetrievalPrompt(question, retrievalContext)
	if err != nil {
		return nil, err
	}
	answer, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer = citation.Linkify(answer, idx)
	answer = citation.RemapToUsedSources(answer, idx, used)

	if conversational {
		a.memory.SaveTurn(ctx, query, answer)
	}

	return &Answer{Answer: answer, Sources: dedupe(used)}, nil
}

// RelatedQuestions generates follow-up search queries for the question.
// Failures are logged and yield nil; related questions never block an
// answer.
func (a *Assistant) RelatedQuestions(ctx context.Context, query string) []string {
	prompt, err := llm.RelatedQuestionsPrompt(query)
	if err != nil {
		a.logger.Error("failed to render related questions prompt", zap.Error(err))
		return nil
	}

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("related questions generation failed",
			zap.String("query", query),
			zap.Error(err))
		return nil
	}

	// Models wrap the JSON in prose or code fences often enough that we cut
	// down to the outermost object before parsing.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		a.logger.Warn("related questions response is not JSON", zap.String("raw", raw))
		return nil
	}

	var related []string
	for _, q := range gjson.Get(raw[start:end+1], "related_queries").Array() {
		if s := strings.TrimSpace(q.String()); s != "" {
			related = append(related, s)
		}
	}
	return related
}

// AnswerWithRelated computes the answer and the related questions
// concurrently. The answer comes from the index when one is loaded and from
// raw search results otherwise.
func (a *Assistant) AnswerWithRelated(ctx context.Context, query string, conversational bool) (*Answer, []string, error) {
	var (
		wg      sync.WaitGroup
		answer  *Answer
		answerE error
		related []string
	)

	a.mu.Lock()
	indexed := a.refIndex != nil
	a.mu.Unlock()

	wg.Add(2)
	go func() {
		defer wg.Done()
		if indexed {
			answer, answerE = a.RetrievalCall(ctx, query, conversational)
		} else {
			answer, answerE = a.BasicCall(ctx, query, conversational)
		}
	}()
	go func() {
		defer wg.Done()
		related = a.RelatedQuestions(ctx, query)
	}()
	wg.Wait()

	if answerE != nil {
		return nil, nil, answerE
	}
	return answer, related, nil
}

func searchLinks(results []*types.SearchResult) []string {
	links := make([]string, 0, len(results))
	for _, r := range results {
		links = append(links, r.Link)
	}
	return links
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
