// internal/workers/planning/build-content-plan/models.go
package buildcontentplan

import (
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
)

// Input is the score-trends output plus the profile's preferences.
type Input struct {
	RunID        string                  `json:"runId"`
	BusinessType string                  `json:"businessType"`
	Country      string                  `json:"country"`
	Niche        niche.Niche             `json:"niche"`
	Shortlist    []models.ScoredSignal   `json:"shortlist"`
	Profile      *models.BusinessProfile `json:"profile,omitempty"`
}

// Output is the weekly content plan.
type Output struct {
	RunID        string                  `json:"runId"`
	BusinessType string                  `json:"businessType"`
	GeneratedAt  string                  `json:"generatedAt"`
	Concepts     []models.ReelConcept    `json:"concepts"`
	Calendar     []models.ContentPlanDay `json:"calendar"`

	// TipsSynthesized counts platform tips that had to be filled in to
	// keep every day's tip map complete.
	TipsSynthesized int `json:"tipsSynthesized,omitempty"`
}
