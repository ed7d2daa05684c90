// internal/workers/planning/deliver-plan/config.go
package deliverplan

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	AWSRegion    string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   false,
		FromEmail:    "plans@social-media-strategist.io",
		AWSRegion:    "us-east-1",
	}
}
