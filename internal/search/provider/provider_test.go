package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

func TestNewBaseProvider(t *testing.T) {
	config := &types.ProviderConfig{
		Name:    "serpapi",
		APIHost: "https://serpapi.com",
		APIKey:  "test-key",
		Timeout: 30,
	}

	base := NewBaseProvider(config)
	assert.NotNil(t, base)
	assert.Equal(t, "serpapi", base.GetName())
	assert.Equal(t, "test-key", base.GetAPIKey())
}

func TestBaseProvider_GetAPIKey_Rotation(t *testing.T) {
	config := &types.ProviderConfig{
		Name:    "serpapi",
		APIHost: "https://serpapi.com",
		APIKey:  "key1, key2, key3",
	}

	base := NewBaseProvider(config)

	assert.Equal(t, "key1", base.GetAPIKey())
	assert.Equal(t, "key2", base.GetAPIKey())
	assert.Equal(t, "key3", base.GetAPIKey())
	assert.Equal(t, "key1", base.GetAPIKey()) // Should rotate back to first
}

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *types.ProviderConfig
		wantErr error
	}{
		{
			name: "valid config",
			config: &types.ProviderConfig{
				Name:    "serpapi",
				APIHost: "https://serpapi.com",
				APIKey:  "test-key",
			},
			wantErr: nil,
		},
		{
			name: "missing name",
			config: &types.ProviderConfig{
				APIHost: "https://serpapi.com",
				APIKey:  "test-key",
			},
			wantErr: types.ErrInvalidProviderName,
		},
		{
			name: "missing API host",
			config: &types.ProviderConfig{
				Name:   "serpapi",
				APIKey: "test-key",
			},
			wantErr: types.ErrInvalidAPIHost,
		},
		{
			name: "missing API key",
			config: &types.ProviderConfig{
				Name:    "serpapi",
				APIHost: "https://serpapi.com",
			},
			wantErr: types.ErrMissingAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSerpAPIProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "laptop battery drains fast", r.URL.Query().Get("q"))
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic_results": [
				{"title": "Battery tips", "snippet": "Reduce brightness", "link": "https://support.example.com/battery"},
				{"title": "Power settings", "snippet": "Check power plan", "link": "https://support.example.com/power"}
			],
			"knowledge_graph": {"description": "A laptop battery stores energy."}
		}`))
	}))
	defer server.Close()

	p, err := NewSerpAPIProvider(&types.ProviderConfig{
		Name:    "serpapi",
		APIHost: server.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{
		Query:      "laptop battery drains fast",
		MaxResults: 3,
		Engine:     types.EngineGoogle,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Battery tips", resp.Results[0].Title)
	assert.Equal(t, "https://support.example.com/power", resp.Results[1].Link)
	assert.Equal(t, "A laptop battery stores energy.", resp.KnowledgeGraph)
}

func TestSerpAPIProvider_Search_UnknownEngine(t *testing.T) {
	p, err := NewSerpAPIProvider(&types.ProviderConfig{
		Name:    "serpapi",
		APIHost: "https://serpapi.com",
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{
		Query:  "anything",
		Engine: types.Engine("duckduckgo"),
	})
	assert.ErrorIs(t, err, types.ErrUnknownEngine)
}

func TestSerpAPIProvider_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p, err := NewSerpAPIProvider(&types.ProviderConfig{
		Name:    "serpapi",
		APIHost: server.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{
		Query:  "anything",
		Engine: types.EngineBing,
	})

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "HTTP_429", provErr.Code)
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()
	assert.Contains(t, factory.ListProviders(), ProviderSerpAPI)

	p, err := factory.Create(&types.ProviderConfig{
		Name:    ProviderSerpAPI,
		APIHost: "https://serpapi.com",
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	assert.IsType(t, &SerpAPIProvider{}, p)

	_, err = factory.Create(&types.ProviderConfig{
		Name:    "unknown",
		APIHost: "https://example.com",
		APIKey:  "test-key",
	})
	assert.Error(t, err)
}
