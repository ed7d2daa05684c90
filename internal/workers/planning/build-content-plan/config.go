// internal/workers/planning/build-content-plan/config.go
package buildcontentplan

import "time"

type Config struct {
	Timeout   time.Duration
	SeedCount int // concept seeds taken from the shortlist
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		SeedCount: 5,
	}
}
