// internal/workers/trends/score-trends/models.go
package scoretrends

import (
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
)

// Input is the collect-trends output plus the profile's preferences.
type Input struct {
	RunID        string                  `json:"runId"`
	BusinessType string                  `json:"businessType"`
	Country      string                  `json:"country"`
	Niche        niche.Niche             `json:"niche"`
	Summary      models.SourceSummary    `json:"summary"`
	Signals      []models.Signal         `json:"signals"`
	Profile      *models.BusinessProfile `json:"profile,omitempty"`
	TopK         int                     `json:"topK,omitempty"`
}

// Output feeds the planning stage.
type Output struct {
	RunID        string                `json:"runId"`
	BusinessType string                `json:"businessType"`
	Country      string                `json:"country"`
	Niche        niche.Niche           `json:"niche"`
	Summary      models.SourceSummary  `json:"summary"`
	Shortlist    []models.ScoredSignal `json:"shortlist"`
	TotalScored  int                   `json:"totalScored"`
	Excluded     int                   `json:"excluded"`

	// ExclusionFallback is set when the profile's exclusions removed every
	// signal; the shortlist then carries the unfiltered ranking instead of
	// being empty.
	ExclusionFallback bool `json:"exclusionFallback,omitempty"`
}
