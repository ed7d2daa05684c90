// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	References    ReferencesConfig        `mapstructure:"references"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Sources       SourcesConfig           `mapstructure:"sources"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
	AuditIndex string   `mapstructure:"audit_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// ReferencesConfig points at the on-disk reference data overrides.
// Empty paths fall back to the compiled-in defaults.
type ReferencesConfig struct {
	NichePath    string `mapstructure:"niche_path"`
	SchedulePath string `mapstructure:"schedule_path"`
}

// SourcesConfig holds per-connector settings for the collect-trends worker.
type SourcesConfig struct {
	TikTok struct {
		Enabled   bool   `mapstructure:"enabled"`
		BaseURL   string `mapstructure:"base_url"`
		APIURL    string `mapstructure:"api_url"`
		UserAgent string `mapstructure:"user_agent"`
		Timeout   int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"tiktok"`

	GoogleTrends struct {
		Enabled    bool   `mapstructure:"enabled"`
		RSSURL     string `mapstructure:"rss_url"`
		RelatedURL string `mapstructure:"related_url"` // related-queries endpoint, empty disables
		Country    string `mapstructure:"country"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"google_trends"`

	Reddit struct {
		Enabled   bool   `mapstructure:"enabled"`
		BaseURL   string `mapstructure:"base_url"`
		UserAgent string `mapstructure:"user_agent"`
		Timeout   int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"reddit"`

	// Minimum spacing between consecutive requests to the same host.
	MinRequestInterval int `mapstructure:"min_request_interval"` // milliseconds
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		Enabled bool   `mapstructure:"enabled"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// NotificationConfig holds settings for the deliver-plan worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled            bool   `mapstructure:"enabled"`
		DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
