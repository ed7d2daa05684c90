// internal/models/plan.go
package models

// Hook patterns for reel concepts.
const (
	HookQuestion    = "question"
	HookChallenge   = "challenge"
	HookControversy = "controversy"
	HookTutorial    = "tutorial"
	HookBeforeAfter = "before_after"
	HookReveal      = "reveal"
	HookListicle    = "listicle"
)

// Hashtags groups recommended tags by audience size tier.
type Hashtags struct {
	Large  []string `json:"large"`
	Medium []string `json:"medium"`
	Niche  []string `json:"niche"`
}

// ReelConcept is one short-form video idea expanded from a trend signal.
type ReelConcept struct {
	ID            string   `json:"id"`
	TrendID       string   `json:"trend_id"`
	Title         string   `json:"title"`
	HookPattern   string   `json:"hook_pattern"`
	Hook          string   `json:"hook"`
	Script        []string `json:"script"`
	Sound         string   `json:"sound,omitempty"`
	SoundLink     string   `json:"sound_link,omitempty"`
	Caption       string   `json:"caption"`
	Hashtags      Hashtags `json:"hashtags"`
	CTA           string   `json:"cta"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime string   `json:"estimated_time"`
}

// ContentPlanDay is one calendar slot of the weekly plan. PlatformTips must
// carry exactly one tip per listed platform.
type ContentPlanDay struct {
	Day          string            `json:"day"`
	ConceptID    string            `json:"concept_id,omitempty"`
	Title        string            `json:"title"`
	Time         string            `json:"time,omitempty"`
	Platforms    []string          `json:"platforms"`
	ContentType  string            `json:"content_type"`
	Notes        string            `json:"notes,omitempty"`
	PlatformTips map[string]string `json:"platform_tips"`
}

// ContentPlan is the weekly output of the planning stage.
type ContentPlan struct {
	RunID        string           `json:"run_id"`
	BusinessType string           `json:"business_type"`
	GeneratedAt  string           `json:"generated_at"`
	Concepts     []ReelConcept    `json:"concepts"`
	Calendar     []ContentPlanDay `json:"calendar"`
}

// TipsComplete reports whether every listed platform has a tip and no tip
// references an unlisted platform.
func (d ContentPlanDay) TipsComplete() bool {
	if len(d.PlatformTips) != len(d.Platforms) {
		return false
	}
	for _, p := range d.Platforms {
		if _, ok := d.PlatformTips[p]; !ok {
			return false
		}
	}
	return true
}
