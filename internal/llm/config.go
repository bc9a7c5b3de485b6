package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider   string
	Anthropic  VendorConfig
	OpenAI     VendorConfig
	Gemini     VendorConfig
	OpenRouter VendorConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// VendorConfig holds the credentials and model of one vendor. BaseURL is
// only honoured by OpenAI-compatible endpoints.
type VendorConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns defaults with no credentials.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  VendorConfig{Model: "claude-haiku"},
		OpenAI:     VendorConfig{Model: "gpt-4o-mini"},
		Gemini:     VendorConfig{Model: "gemini-flash"},
		OpenRouter: VendorConfig{Model: "google/gemini-2.5-flash", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays QUESTMAP_* environment variables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setIf := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIf(&cfg.Provider, "QUESTMAP_LLM_PROVIDER")

	setIf(&cfg.Anthropic.APIKey, "QUESTMAP_ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "QUESTMAP_ANTHROPIC_MODEL")

	setIf(&cfg.OpenAI.APIKey, "QUESTMAP_OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "QUESTMAP_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "QUESTMAP_OPENAI_BASE_URL")

	setIf(&cfg.Gemini.APIKey, "QUESTMAP_GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "QUESTMAP_GEMINI_MODEL")

	setIf(&cfg.OpenRouter.APIKey, "QUESTMAP_OPENROUTER_API_KEY")
	setIf(&cfg.OpenRouter.Model, "QUESTMAP_OPENROUTER_MODEL")

	if v := os.Getenv("QUESTMAP_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// DiscoverConfig falls back to the vendors' conventional key variables,
// in the order Gemini, OpenAI, Anthropic, OpenRouter. It reports false
// when none is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		dst      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.dst = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Vendor returns the vendor section for the selected provider.
func (c Config) Vendor() (VendorConfig, bool) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic, true
	case ProviderOpenAI:
		return c.OpenAI, true
	case ProviderGemini:
		return c.Gemini, true
	case ProviderOpenRouter:
		return c.OpenRouter, true
	}
	return VendorConfig{}, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	v, ok := c.Vendor()
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if v.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	return nil
}
