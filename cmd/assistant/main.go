package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/assistant"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/chunker"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/conf"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/crawler"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/embedding"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/llm"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/workerpool"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/provider"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/vectorstore"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.InitGlobal(&config.Log); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log := logger.L()
	defer log.Sync()

	log.Info("config loaded successfully")

	ctx := context.Background()

	a, cleanup, err := buildAssistant(ctx, config, log)
	if err != nil {
		log.Fatal("failed to build assistant", zap.Error(err))
	}
	defer cleanup()

	runREPL(ctx, a)
}

func buildAssistant(ctx context.Context, config *conf.Config, log *logger.Logger) (*assistant.Assistant, func(), error) {
	searchProvider, err := provider.NewFactory().Create(&types.ProviderConfig{
		Name:       provider.ProviderSerpAPI,
		APIHost:    config.Search.APIHost,
		APIKey:     config.Search.APIKey,
		Timeout:    config.Search.Timeout,
		MaxRetries: config.Search.MaxRetries,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	searchClient, err := search.NewClient(searchProvider, search.ClientConfig{
		Engine:     types.Engine(config.Search.Engine),
		MaxResults: config.Search.MaxResults,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	pool, err := workerpool.New(&workerpool.Config{Workers: config.Crawler.Workers}, log.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	pdfEnabled := false
	for _, l := range config.Crawler.ExtraLoaders {
		if l == "pdf" {
			pdfEnabled = true
		}
	}
	crawl, err := crawler.New(&crawler.Config{
		MaxScrapedWebsites: config.Crawler.MaxScrapedWebsites,
		ExcludedLinks:      config.Crawler.ExcludedLinks,
		PDFEnabled:         pdfEnabled,
		Timeout:            config.Crawler.Timeout,
	}, pool, log)
	if err != nil {
		pool.Shutdown()
		return nil, nil, fmt.Errorf("failed to create crawler: %w", err)
	}

	ck, err := chunker.NewWindowChunker(&chunker.WindowChunkerConfig{
		Size:    config.Retrieval.ChunkSize,
		Overlap: config.Retrieval.ChunkOverlap,
	})
	if err != nil {
		pool.Shutdown()
		return nil, nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	embedder, err := embedding.NewOpenAIEmbedder(&embedding.OpenAIEmbedderConfig{
		APIKey:    config.Embedding.APIKey,
		BaseURL:   config.Embedding.BaseURL,
		Model:     config.Embedding.Model,
		Dimension: config.Embedding.Dimension,
		BatchSize: config.Embedding.BatchSize,
	}, log)
	if err != nil {
		pool.Shutdown()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := vectorstore.NewStore(ctx, config.Retrieval.DBType, &vectorstore.MilvusConfig{
		Host: config.Milvus.Host,
		Port: config.Milvus.Port,
	}, embedder, log)
	if err != nil {
		pool.Shutdown()
		return nil, nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	manager, err := vectorstore.NewIndexManager(store, log)
	if err != nil {
		pool.Shutdown()
		return nil, nil, fmt.Errorf("failed to create index manager: %w", err)
	}

	llmClient, err := llm.NewOpenAIClient(&llm.OpenAIClientConfig{
		APIKey:      config.LLM.APIKey,
		BaseURL:     config.LLM.BaseURL,
		Model:       config.LLM.Model,
		Temperature: config.LLM.Temperature,
		MaxTokens:   config.LLM.MaxTokens,
	}, log)
	if err != nil {
		pool.Shutdown()
		return nil, nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	a, err := assistant.New(assistant.Config{
		Location:       config.Retrieval.Location,
		KDocuments:     config.Retrieval.KDocuments,
		ScoreThreshold: config.Retrieval.ScoreThreshold,
	}, searchClient, crawl, ck, manager, llmClient, log)
	if err != nil {
		pool.Shutdown()
		return nil, nil, err
	}

	cleanup := func() {
		pool.Shutdown()
		if ms, ok := store.(*vectorstore.MilvusStore); ok {
			if err := ms.Close(context.Background()); err != nil {
				log.Warn("failed to close milvus connection", zap.Error(err))
			}
		}
	}
	return a, cleanup, nil
}

const replHelp = `Commands:
  /search <query>   search the web, scrape the results, and build the index
  /update <query>   search and append the scraped pages to the existing index
  /reset            clear the conversation memory
  /help             show this help
  /quit             exit

Anything else is asked as a question. Answers come from the scraped index
once one is built, and from raw search results before that.`

func runREPL(ctx context.Context, a *assistant.Assistant) {
	fmt.Println("Techie'S Assistant. Type /help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return
		case line == "/help":
			fmt.Println(replHelp)
		case line == "/reset":
			a.Memory().Reset()
			fmt.Println("Conversation memory cleared.")
		case strings.HasPrefix(line, "/search "), strings.HasPrefix(line, "/update "):
			update := strings.HasPrefix(line, "/update ")
			query := strings.TrimSpace(line[len("/search "):])
			res, err := a.SearchAndScrape(ctx, query, update)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if res.NoLinks {
				fmt.Println(res.Message)
				continue
			}
			fmt.Printf("Indexed %d chunks from %d pages.\n", res.Chunks, len(res.Links))
		default:
			answer, related, err := a.AnswerWithRelated(ctx, line, true)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println(answer.Answer)
			if len(answer.Sources) > 0 {
				fmt.Println("\nSources:")
				for _, s := range answer.Sources {
					fmt.Println("  -", s)
				}
			}
			if len(related) > 0 {
				fmt.Println("\nRelated questions:")
				for _, r := range related {
					fmt.Println("  -", r)
				}
			}
		}
	}
}
