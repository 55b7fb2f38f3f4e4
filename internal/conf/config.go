package conf

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/pkg/logger"
)

// Config is the full assistant configuration
type Config struct {
	Search    SearchConfig    `mapstructure:"search"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Milvus    MilvusConfig    `mapstructure:"milvus"`
	Log       logger.Config   `mapstructure:"log"`
}

// SearchConfig configures the web search client
type SearchConfig struct {
	APIHost    string `mapstructure:"api_host"`
	APIKey     string `mapstructure:"api_key"`
	Engine     string `mapstructure:"engine"`      // google or bing
	MaxResults int    `mapstructure:"max_results"` // organic results per query
	Timeout    int    `mapstructure:"timeout"`     // seconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// RetrievalConfig configures chunking and the vector index
type RetrievalConfig struct {
	DBType         string  `mapstructure:"db_type"` // memory or milvus
	Location       string  `mapstructure:"location"`
	ChunkSize      int     `mapstructure:"chunk_size"`    // characters
	ChunkOverlap   int     `mapstructure:"chunk_overlap"` // characters
	KDocuments     int     `mapstructure:"k_retrieved_documents"`
	ScoreThreshold float32 `mapstructure:"score_threshold"`
}

// CrawlerConfig configures the web crawl step
type CrawlerConfig struct {
	MaxScrapedWebsites int      `mapstructure:"max_scraped_websites"`
	ExcludedLinks      []string `mapstructure:"excluded_links"`
	ExtraLoaders       []string `mapstructure:"extra_loaders"` // only "pdf" is recognized
	Workers            int      `mapstructure:"workers"`
	Timeout            int      `mapstructure:"timeout"` // seconds per fetch
}

// EmbeddingConfig configures the embedding service
type EmbeddingConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
	BatchSize int    `mapstructure:"batch_size"`
}

// LLMConfig configures the completion model
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// MilvusConfig configures the Milvus connection (db_type: milvus only)
type MilvusConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoadConfig reads and validates the configuration file
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the enumerated options and numeric bounds
func (c *Config) Validate() error {
	if c.Search.Engine != "google" && c.Search.Engine != "bing" {
		return fmt.Errorf("search.engine must be google or bing, got %q", c.Search.Engine)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}

	if c.Retrieval.DBType != "memory" && c.Retrieval.DBType != "milvus" {
		return fmt.Errorf("retrieval.db_type must be memory or milvus, got %q", c.Retrieval.DBType)
	}
	if c.Retrieval.ChunkSize <= 0 {
		return fmt.Errorf("retrieval.chunk_size must be positive, got %d", c.Retrieval.ChunkSize)
	}
	if c.Retrieval.ChunkOverlap < 0 || c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("retrieval.chunk_overlap must be in [0, chunk_size), got %d", c.Retrieval.ChunkOverlap)
	}

	if c.Crawler.MaxScrapedWebsites <= 0 {
		return fmt.Errorf("crawler.max_scraped_websites must be positive, got %d", c.Crawler.MaxScrapedWebsites)
	}
	for _, l := range c.Crawler.ExtraLoaders {
		if l != "pdf" {
			return fmt.Errorf("unrecognized crawler.extra_loaders entry %q", l)
		}
	}

	return nil
}
