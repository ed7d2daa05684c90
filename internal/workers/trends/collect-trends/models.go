// internal/workers/trends/collect-trends/models.go
package collecttrends

import (
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
)

// Input is the collect-trends job payload.
type Input struct {
	BusinessType string   `json:"businessType"`
	Country      string   `json:"country"`
	Keywords     []string `json:"keywords,omitempty"` // extra keywords beyond the niche's
	RunID        string   `json:"runId,omitempty"`
}

// Output feeds the scoring stage.
type Output struct {
	RunID        string               `json:"runId"`
	BusinessType string               `json:"businessType"`
	Country      string               `json:"country"`
	CollectedAt  string               `json:"collectedAt"`
	Niche        niche.Niche          `json:"niche"`
	Summary      models.SourceSummary `json:"summary"`
	Signals      []models.Signal      `json:"signals"`
}
