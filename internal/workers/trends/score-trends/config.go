// internal/workers/trends/score-trends/config.go
package scoretrends

import "time"

type Config struct {
	Timeout    time.Duration
	TopK       int
	RerankBand float64 // max composite adjustment the LLM pass may apply

	// GenAI re-rank endpoint; empty base URL disables the pass.
	GenAIBaseURL string
	GenAIAPIKey  string
	GenAITimeout time.Duration
	MaxRetries   int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      60 * time.Second,
		TopK:         10,
		RerankBand:   0.05,
		GenAITimeout: 30 * time.Second,
		MaxRetries:   2,
	}
}
