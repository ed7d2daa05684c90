// Package connectors pulls trending data from the upstream sources and
// normalizes everything into Signal values. Each connector is independent:
// one failing never stops the others.
package connectors

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sorabhv/social-media-strategist/internal/models"
)

// Query carries the niche-specific parameters of one collection run.
type Query struct {
	BusinessType string
	Country      string
	Keywords     []string
	Subreddits   []string
	HashtagSeeds []string
}

// Connector fetches signals from one upstream source.
type Connector interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]models.Signal, error)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, replaces non-alphanumeric runs with underscores, and
// caps at 60 characters. Signal IDs are <source>_<type>_<slug>.
func Slugify(text string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(text), "_")
	s = strings.Trim(s, "_")
	if len(s) > 60 {
		s = s[:60]
		s = strings.Trim(s, "_")
	}
	return s
}

// TruncateRunes caps s at max runes. Byte slicing would split a multi-byte
// rune and leave invalid UTF-8 in signal names.
func TruncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// ClassifyTrend labels a trend curve by comparing the opening and closing
// three-sample averages.
func ClassifyTrend(values []float64) string {
	if len(values) < 4 {
		return models.TrajectoryUnknown
	}

	first := (values[0] + values[1] + values[2]) / 3
	last := len(values)
	second := (values[last-3] + values[last-2] + values[last-1]) / 3

	peak := 0
	for i, v := range values {
		if v > values[peak] {
			peak = i
		}
	}

	switch {
	case first == 0 && second == 0:
		return models.TrajectoryFlat
	case (peak == 2 || peak == 3) && second < first*0.5:
		return models.TrajectorySpike
	case second > first*1.15:
		return models.TrajectoryRising
	case second < first*0.8:
		return models.TrajectoryDeclining
	default:
		return models.TrajectoryStable
	}
}

// Rank diff types reported by the TikTok creative APIs.
const (
	rankDiffUp     = 1
	rankDiffDown   = 2
	rankDiffNew    = 3
	rankDiffStable = 4
)

// RankChange renders a rank movement as the original feed strings: "+2",
// "-1", "NEW", or "0".
func RankChange(diffType, diff int) string {
	switch diffType {
	case rankDiffUp:
		return fmt.Sprintf("+%d", diff)
	case rankDiffDown:
		return fmt.Sprintf("-%d", diff)
	case rankDiffNew:
		return "NEW"
	default:
		return "0"
	}
}
