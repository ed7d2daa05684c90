// internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_SourceSettings(t *testing.T) {
	yaml := `
camunda:
  broker_address: "localhost:26500"
database:
  postgres:
    host: localhost
    database: strategist
    user: strategist
  elasticsearch:
    url: "http://localhost:9200"
  redis:
    address: "localhost:6379"
sources:
  google_trends:
    enabled: true
    rss_url: "https://trends.google.com/trending/rss"
    related_url: "http://localhost:8600/related"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Sources.GoogleTrends.Enabled)
	assert.Equal(t, "https://trends.google.com/trending/rss", cfg.Sources.GoogleTrends.RSSURL)
	assert.Equal(t, "http://localhost:8600/related", cfg.Sources.GoogleTrends.RelatedURL)
}
