// internal/workers/trends/score-trends/scorer.go
package scoretrends

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
)

// sourcePriority orders ties after composite and virality.
var sourcePriority = map[string]int{
	models.SourceTikTok:       0,
	models.SourceGoogleTrends: 1,
	models.SourceReddit:       2,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalize lowercases and strips everything non-alphanumeric, so
// "#MorningRoutine" and "morning routines" become comparable.
func normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// relevance measures match strength between a signal and the niche keyword
// set (hashtag seeds, trends keywords, content themes). A full name match
// scores near 1; a keyword covering part of the name scores by coverage; a
// match only in the description or related terms scores low.
func relevance(s models.Signal, n niche.Niche) float64 {
	name := normalize(s.Name)
	if name == "" {
		return 0
	}

	contextText := normalize(s.Description + " " + strings.Join(s.Related, " "))

	best := 0.0
	matches := 0
	for _, kw := range keywordSet(n) {
		score := 0.0
		switch {
		case kw == name:
			score = 1.0
		case strings.Contains(kw, name):
			score = 0.95
		case strings.Contains(name, kw):
			score = float64(len(kw)) / float64(len(name))
		case contextText != "" && strings.Contains(contextText, kw):
			score = 0.4
		}
		if score > 0 {
			matches++
			if score > best {
				best = score
			}
		}
	}

	if matches == 0 {
		return 0
	}
	return clip01(best + 0.05*float64(matches-1))
}

func keywordSet(n niche.Niche) []string {
	var out []string
	for _, group := range [][]string{n.HashtagSeeds, n.TrendsKeywords, n.ContentThemes} {
		for _, kw := range group {
			if nk := normalize(kw); nk != "" {
				out = append(out, nk)
			}
		}
	}
	return out
}

// virality is a monotonic, clipped momentum transform over whatever native
// popularity metrics the source provided.
func virality(s models.Signal) float64 {
	base := 0.0

	if s.Rank > 0 {
		base = math.Max(base, 1.0-float64(s.Rank-1)*0.05)
	}
	if views, ok := s.Metrics["views"]; ok && views > 0 {
		base = math.Max(base, math.Log10(views)/10)
	}
	if score, ok := s.Metrics["score"]; ok && score > 0 {
		v := math.Log10(1+score) / 4
		if ratio, ok := s.Metrics["upvote_ratio"]; ok && ratio > 0 {
			v *= ratio
		}
		base = math.Max(base, v)
	}
	if value, ok := s.Metrics["value"]; ok && value > 0 {
		base = math.Max(base, value/100)
	}

	if change, ok := s.TextMetrics["rank_change"]; ok {
		switch {
		case change == "NEW":
			base += 0.15
		case strings.HasPrefix(change, "+"):
			base += 0.10
		case strings.HasPrefix(change, "-"):
			base -= 0.10
		}
	}

	return clip01(base)
}

// difficulty is the inverse of estimated production complexity: reusing a
// trending sound is near-free, recreating a video format is work.
func difficulty(s models.Signal) float64 {
	switch s.Type {
	case models.TypeSong:
		return 0.9
	case models.TypeHashtag:
		return 0.8
	case models.TypeSearchTrend, models.TypeRelatedQuery:
		return 0.6
	case models.TypeRedditPost:
		return 0.5
	case models.TypeVideo:
		return 0.4
	default:
		return 0.5
	}
}

// timeliness follows the trajectory classification, degraded by rank
// staleness. A SPIKE has likely already peaked, so it scores lowest.
func timeliness(s models.Signal) float64 {
	var t float64
	switch s.Trajectory {
	case models.TrajectoryRising:
		t = 0.95
	case models.TrajectoryStable:
		t = 0.75
	case models.TrajectoryFlat:
		t = 0.50
	case models.TrajectoryDeclining:
		t = 0.45
	case models.TrajectorySpike:
		t = 0.25
	default:
		t = 0.60
	}

	if s.Rank > 10 {
		t -= 0.10
	}
	return clip01(t)
}

func composite(sc models.Scores, w niche.Weights) float64 {
	return sc.Relevance*w.Relevance +
		sc.Virality*w.Virality +
		sc.Difficulty*w.Difficulty +
		sc.Timeliness*w.Timeliness
}

// scoreSignal computes all four factors and the composite.
func scoreSignal(s models.Signal, n niche.Niche) models.Scores {
	sc := models.Scores{
		Relevance:  relevance(s, n),
		Virality:   virality(s),
		Difficulty: difficulty(s),
		Timeliness: timeliness(s),
	}
	sc.Composite = composite(sc, n.Weights)
	return sc
}

// orderShortlist sorts by composite desc, virality desc, source priority,
// then ID. The full rule keeps repeated runs byte-identical.
func orderShortlist(list []models.ScoredSignal) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Scores.Composite != b.Scores.Composite {
			return a.Scores.Composite > b.Scores.Composite
		}
		if a.Scores.Virality != b.Scores.Virality {
			return a.Scores.Virality > b.Scores.Virality
		}
		if sourcePriority[a.Source] != sourcePriority[b.Source] {
			return sourcePriority[a.Source] < sourcePriority[b.Source]
		}
		return a.ID < b.ID
	})
}

// --- Exclusion parsing ---

var exclusionMarkers = []string{"no ", "avoid ", "don't ", "do not ", "without ", "never "}

// parseExclusions extracts negative phrases from free-text content
// preferences, e.g. "no dancing reels, upbeat tone" yields "dancing reels".
func parseExclusions(prefs string) []string {
	if prefs == "" {
		return nil
	}

	var out []string
	for _, segment := range splitSegments(prefs) {
		lower := strings.ToLower(strings.TrimSpace(segment))
		for _, marker := range exclusionMarkers {
			if strings.HasPrefix(lower, marker) {
				phrase := strings.TrimSpace(lower[len(marker):])
				if phrase != "" {
					out = append(out, phrase)
				}
				break
			}
		}
	}
	return out
}

func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '.' || r == '\n'
	})
}

// genericExclusionWords carry no topical meaning on their own.
var genericExclusionWords = map[string]struct{}{
	"reels": {}, "reel": {}, "videos": {}, "video": {}, "content": {},
	"posts": {}, "post": {}, "stuff": {}, "things": {}, "trends": {},
}

// matchesExclusion reports whether the signal's text hits any excluded
// topic. Tokens are stemmed crudely so "dancing" also catches "dance".
func matchesExclusion(s models.Signal, exclusions []string) bool {
	if len(exclusions) == 0 {
		return false
	}

	text := normalize(s.Name + " " + s.Description + " " + strings.Join(s.Related, " "))
	if text == "" {
		return false
	}

	for _, phrase := range exclusions {
		if strings.Contains(text, normalize(phrase)) {
			return true
		}
		for _, token := range strings.Fields(phrase) {
			if _, generic := genericExclusionWords[token]; generic {
				continue
			}
			stem := stemToken(normalize(token))
			if len(stem) >= 4 && strings.Contains(text, stem) {
				return true
			}
		}
	}
	return false
}

func stemToken(t string) string {
	for _, suffix := range []string{"ing", "es", "ed", "s"} {
		if strings.HasSuffix(t, suffix) && len(t)-len(suffix) >= 3 {
			return t[:len(t)-len(suffix)]
		}
	}
	return t
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
