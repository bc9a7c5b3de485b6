package recommend

// Config tunes LLM calls made by this package.
type Config struct {
	MaxSuggestions int
	MaxTokens      int
	Temperature    float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions: 3,
		MaxTokens:      1024,
		Temperature:    0.7,
	}
}
