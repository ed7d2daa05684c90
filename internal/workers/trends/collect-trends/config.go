// internal/workers/trends/collect-trends/config.go
package collecttrends

import "time"

type Config struct {
	Timeout       time.Duration // whole-job budget
	SourceTimeout time.Duration // per-connector budget
	ArchiveIndex  string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       90 * time.Second,
		SourceTimeout: 25 * time.Second,
		ArchiveIndex:  "trend-signals",
	}
}
