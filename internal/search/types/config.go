package types

// Engine identifies a search engine backend
type Engine string

const (
	EngineGoogle Engine = "google"
	EngineBing   Engine = "bing"
)

// Valid reports whether the engine is one of the supported backends
func (e Engine) Valid() bool {
	return e == EngineGoogle || e == EngineBing
}

// ProviderConfig represents search provider configuration
type ProviderConfig struct {
	Name string `json:"name" yaml:"name"`

	// API settings
	APIHost string `json:"api_host" yaml:"api_host"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Optional settings
	Timeout    int `json:"timeout,omitempty" yaml:"timeout,omitempty"`         // seconds
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"` // default: 3
}

// Validate validates the provider configuration
func (c *ProviderConfig) Validate() error {
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
