// Package niche maps business types to their trend-hunting configuration:
// hashtag seeds for TikTok, keyword sets for Google Trends, subreddits for
// Reddit, content themes for planning, and scoring weights.
package niche

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Weights are the scoring factor weights. They must sum to 1.0.
type Weights struct {
	Relevance  float64 `json:"relevance"`
	Virality   float64 `json:"virality"`
	Difficulty float64 `json:"difficulty"`
	Timeliness float64 `json:"timeliness"`
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Relevance + w.Virality + w.Difficulty + w.Timeliness
}

// DefaultWeights match the documented composite formula.
var DefaultWeights = Weights{
	Relevance:  0.35,
	Virality:   0.25,
	Difficulty: 0.25,
	Timeliness: 0.15,
}

// Niche holds one business type's configuration.
type Niche struct {
	DisplayName    string   `json:"display_name"`
	HashtagSeeds   []string `json:"tiktok_hashtag_seeds"`
	TrendsKeywords []string `json:"google_trends_keywords"`
	Subreddits     []string `json:"subreddits"`
	ContentThemes  []string `json:"content_themes"`
	Weights        Weights  `json:"scoring_weights"`
}

// Mapping is a validated set of niches keyed by business type.
type Mapping struct {
	niches map[string]Niche
}

const weightTolerance = 1e-9

// Load returns the mapping, applying a JSON override file when path is
// non-empty. Load fails if any niche's weights do not sum to 1.0.
func Load(path string) (*Mapping, error) {
	niches := make(map[string]Niche, len(defaults))
	for k, v := range defaults {
		niches[k] = v
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read niche mapping %s: %w", path, err)
		}
		var override map[string]Niche
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to parse niche mapping %s: %w", path, err)
		}
		for k, v := range override {
			if v.Weights == (Weights{}) {
				v.Weights = DefaultWeights
			}
			niches[k] = v
		}
	}

	for key, n := range niches {
		if math.Abs(n.Weights.Sum()-1.0) > weightTolerance {
			return nil, fmt.Errorf("niche %q scoring weights sum to %f, want 1.0", key, n.Weights.Sum())
		}
	}

	return &Mapping{niches: niches}, nil
}

// MustLoadDefaults returns the compiled-in mapping. Panics only if the
// compiled-in weight table is broken, which the tests guard.
func MustLoadDefaults() *Mapping {
	m, err := Load("")
	if err != nil {
		panic(err)
	}
	return m
}

// Get looks up one business type.
func (m *Mapping) Get(businessType string) (Niche, bool) {
	n, ok := m.niches[businessType]
	return n, ok
}

// Types returns the sorted business type keys.
func (m *Mapping) Types() []string {
	keys := make([]string, 0, len(m.niches))
	for k := range m.niches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of configured business types.
func (m *Mapping) Len() int {
	return len(m.niches)
}
