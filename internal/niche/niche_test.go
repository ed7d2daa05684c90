// internal/niche/niche_test.go
package niche

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_WeightsSumToOne(t *testing.T) {
	m := MustLoadDefaults()

	for _, businessType := range m.Types() {
		n, ok := m.Get(businessType)
		require.True(t, ok, businessType)
		assert.InDelta(t, 1.0, n.Weights.Sum(), 1e-9, "weights for %s must sum to 1", businessType)
	}
}

func TestDefaults_EveryEntryComplete(t *testing.T) {
	m := MustLoadDefaults()
	require.NotZero(t, m.Len())

	for _, businessType := range m.Types() {
		n, _ := m.Get(businessType)
		assert.NotEmpty(t, n.DisplayName, businessType)
		assert.NotEmpty(t, n.HashtagSeeds, businessType)
		assert.NotEmpty(t, n.TrendsKeywords, businessType)
		assert.NotEmpty(t, n.Subreddits, businessType)
		assert.NotEmpty(t, n.ContentThemes, businessType)
	}
}

func TestGet_UnknownType(t *testing.T) {
	m := MustLoadDefaults()
	_, ok := m.Get("submarine_dealership")
	assert.False(t, ok)
}

func TestLoad_OverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "niches.json")
	override := `{
		"tea_house": {
			"display_name": "Tea House",
			"tiktok_hashtag_seeds": ["tea"],
			"google_trends_keywords": ["matcha"],
			"subreddits": ["tea"],
			"content_themes": ["brewing"],
			"scoring_weights": {"relevance": 0.4, "virality": 0.3, "difficulty": 0.2, "timeliness": 0.1}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	n, ok := m.Get("tea_house")
	require.True(t, ok)
	assert.Equal(t, "Tea House", n.DisplayName)
	assert.InDelta(t, 1.0, n.Weights.Sum(), 1e-9)

	// Defaults survive alongside the override
	_, ok = m.Get("coffee_shop")
	assert.True(t, ok)
}

func TestLoad_RejectsBadWeightSum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "niches.json")
	override := `{
		"broken": {
			"display_name": "Broken",
			"tiktok_hashtag_seeds": ["x"],
			"google_trends_keywords": ["x"],
			"subreddits": ["x"],
			"content_themes": ["x"],
			"scoring_weights": {"relevance": 0.5, "virality": 0.5, "difficulty": 0.5, "timeliness": 0.5}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultWeights(t *testing.T) {
	assert.True(t, math.Abs(DefaultWeights.Sum()-1.0) < 1e-9)
	assert.Equal(t, 0.35, DefaultWeights.Relevance)
	assert.Equal(t, 0.25, DefaultWeights.Virality)
	assert.Equal(t, 0.25, DefaultWeights.Difficulty)
	assert.Equal(t, 0.15, DefaultWeights.Timeliness)
}
