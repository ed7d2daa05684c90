// internal/models/signal.go
package models

import (
	"encoding/json"
	"time"
)

// Signal sources.
const (
	SourceTikTok       = "tiktok"
	SourceGoogleTrends = "google_trends"
	SourceReddit       = "reddit"
)

// Signal types.
const (
	TypeHashtag      = "hashtag"
	TypeSong         = "song"
	TypeVideo        = "video"
	TypeSearchTrend  = "search_trend"
	TypeRelatedQuery = "related_query"
	TypeRedditPost   = "reddit_post"
)

// Trajectory classifications, derived from the trend curve.
const (
	TrajectoryRising    = "RISING"
	TrajectoryStable    = "STABLE"
	TrajectoryDeclining = "DECLINING"
	TrajectorySpike     = "SPIKE"
	TrajectoryFlat      = "FLAT"
	TrajectoryUnknown   = "UNKNOWN"
)

// Signal is one normalized trend observation from a source connector.
// ID is unique within a source: <source>_<type>_<slug>.
type Signal struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	TextMetrics map[string]string  `json:"text_metrics,omitempty"`
	Trajectory  string             `json:"trajectory,omitempty"`
	TrendCurve  []float64          `json:"trend_curve,omitempty"`
	Rank        int                `json:"rank,omitempty"`
	URL         string             `json:"url,omitempty"`
	Related     []string           `json:"related,omitempty"`
	Raw         json.RawMessage    `json:"raw,omitempty"`
	CollectedAt time.Time          `json:"collected_at"`
}

// Scores holds the four scoring factors and their weighted composite,
// each in [0, 1].
type Scores struct {
	Relevance  float64 `json:"relevance"`
	Virality   float64 `json:"virality"`
	Difficulty float64 `json:"difficulty"`
	Timeliness float64 `json:"timeliness"`
	Composite  float64 `json:"composite"`
}

// ScoredSignal is a Signal after the scoring stage.
type ScoredSignal struct {
	Signal
	Scores         Scores `json:"scores"`
	ShortlistRank  int    `json:"shortlist_rank"`
	SuggestedAngle string `json:"suggested_angle,omitempty"`
}

// SourceOutcome records one connector's fetch result.
type SourceOutcome struct {
	Attempted bool   `json:"attempted"`
	Succeeded bool   `json:"succeeded"`
	Count     int    `json:"count"`
	Error     string `json:"error,omitempty"`
}

// SourceSummary aggregates per-source outcomes for a collection run.
type SourceSummary struct {
	Sources  map[string]SourceOutcome `json:"sources"`
	ByType   map[string]int           `json:"by_type"`
	Total    int                      `json:"total"`
	Deduped  int                      `json:"deduped"`
}

// SucceededCount returns how many attempted sources succeeded.
func (s SourceSummary) SucceededCount() int {
	n := 0
	for _, o := range s.Sources {
		if o.Succeeded {
			n++
		}
	}
	return n
}

// AttemptedSources lists the sources that were attempted, for error reporting.
func (s SourceSummary) AttemptedSources() []string {
	out := make([]string, 0, len(s.Sources))
	for name, o := range s.Sources {
		if o.Attempted {
			out = append(out, name)
		}
	}
	return out
}
