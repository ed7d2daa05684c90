// internal/workers/planning/build-content-plan/planner.go
package buildcontentplan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
	"github.com/sorabhv/social-media-strategist/internal/schedule"
)

const maxSeedsPerType = 2

// selectSeeds walks the ranked shortlist picking up to limit concept seeds.
// Duplicate IDs are skipped and no signal type takes more than two slots
// until no alternative remains.
func selectSeeds(shortlist []models.ScoredSignal, limit int) []models.ScoredSignal {
	seeds := make([]models.ScoredSignal, 0, limit)
	seen := make(map[string]struct{})
	typeCount := make(map[string]int)

	for _, s := range shortlist {
		if len(seeds) == limit {
			return seeds
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		if typeCount[s.Type] >= maxSeedsPerType {
			continue
		}
		seen[s.ID] = struct{}{}
		typeCount[s.Type]++
		seeds = append(seeds, s)
	}

	// Variety exhausted: fill remaining slots in rank order
	for _, s := range shortlist {
		if len(seeds) == limit {
			break
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		seeds = append(seeds, s)
	}

	return seeds
}

// hookPattern picks a hook style from signal type and trajectory.
func hookPattern(s models.ScoredSignal) string {
	switch s.Type {
	case models.TypeSong:
		return models.HookChallenge
	case models.TypeHashtag:
		if s.Trajectory == models.TrajectoryRising {
			return models.HookChallenge
		}
		return models.HookQuestion
	case models.TypeSearchTrend:
		return models.HookListicle
	case models.TypeRelatedQuery:
		return models.HookTutorial
	case models.TypeRedditPost:
		return models.HookReveal
	case models.TypeVideo:
		return models.HookBeforeAfter
	default:
		return models.HookQuestion
	}
}

var hookTemplates = map[string]string{
	models.HookQuestion:    "Did you know %s is everywhere right now?",
	models.HookChallenge:   "We tried the %s trend so you don't have to",
	models.HookControversy: "Hot take: %s is overrated. Here's ours",
	models.HookTutorial:    "How we do %s, step by step",
	models.HookBeforeAfter: "Before and after: our take on %s",
	models.HookReveal:      "The real story behind %s at our shop",
	models.HookListicle:    "3 ways we're using %s this week",
}

var ctas = []string{
	"Follow for more behind the scenes",
	"Save this for your next visit",
	"Tag someone who needs to see this",
	"Comment your favorite below",
	"Share this with a friend",
}

// buildConcepts expands each seed into a full reel concept. Sound links are
// injected from the shortlist: exact trend-id match first, normalized sound
// name second.
func buildConcepts(seeds, shortlist []models.ScoredSignal, n niche.Niche) []models.ReelConcept {
	sound, soundLink := recommendSound(seeds, shortlist)

	concepts := make([]models.ReelConcept, 0, len(seeds))
	for i, seed := range seeds {
		pattern := hookPattern(seed)
		topic := cleanTopic(seed.Name)

		c := models.ReelConcept{
			ID:          fmt.Sprintf("concept_%d", i+1),
			TrendID:     seed.ID,
			Title:       fmt.Sprintf("%s x %s", n.DisplayName, topic),
			HookPattern: pattern,
			Hook:        fmt.Sprintf(hookTemplates[pattern], topic),
			Script: []string{
				fmt.Sprintf("Open on the hook: %s", fmt.Sprintf(hookTemplates[pattern], topic)),
				fmt.Sprintf("Show the %s angle in your own space, 3-5 quick cuts", topic),
				pickTheme(n, i),
				"Close with the CTA on screen and in the caption",
			},
			Caption:       buildCaption(seed, n, topic),
			Hashtags:      buildHashtags(seed, n),
			CTA:           ctas[i%len(ctas)],
			Difficulty:    difficultyLabel(seed.Scores.Difficulty),
			EstimatedTime: timeEstimate(seed.Scores.Difficulty),
		}

		if seed.Type == models.TypeSong {
			c.Sound = seed.Name
			c.SoundLink = seed.URL
		} else {
			c.Sound = sound
			c.SoundLink = soundLink
		}
		if c.SoundLink == "" {
			c.SoundLink = lookupSoundLink(c.Sound, c.TrendID, shortlist)
		}

		concepts = append(concepts, c)
	}

	return concepts
}

// recommendSound prefers a song already in the shortlist.
func recommendSound(seeds, shortlist []models.ScoredSignal) (string, string) {
	for _, list := range [][]models.ScoredSignal{seeds, shortlist} {
		for _, s := range list {
			if s.Type == models.TypeSong {
				return s.Name, s.URL
			}
		}
	}
	return "Trending audio of the week", ""
}

// lookupSoundLink matches a sound back to shortlist entries, by trend id
// first and normalized name second.
func lookupSoundLink(sound, trendID string, shortlist []models.ScoredSignal) string {
	byName := make(map[string]string, len(shortlist))
	for _, s := range shortlist {
		if s.URL == "" {
			continue
		}
		if s.ID == trendID {
			return s.URL
		}
		byName[strings.ToLower(strings.TrimSpace(s.Name))] = s.URL
	}

	// Drop any dash-separated artist suffix before comparing
	base := sound
	for _, sep := range []string{"—", "–", " - "} {
		base = strings.SplitN(base, sep, 2)[0]
	}
	base = strings.ToLower(strings.TrimSpace(base))

	if link, ok := byName[base]; ok {
		return link
	}
	for name, link := range byName {
		if name != "" && (strings.Contains(name, base) || strings.Contains(base, name)) {
			return link
		}
	}
	return ""
}

func cleanTopic(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}

func pickTheme(n niche.Niche, i int) string {
	if len(n.ContentThemes) == 0 {
		return "Work in one signature moment from your week"
	}
	return fmt.Sprintf("Tie it back to %s", n.ContentThemes[i%len(n.ContentThemes)])
}

func buildCaption(seed models.ScoredSignal, n niche.Niche, topic string) string {
	if seed.SuggestedAngle != "" {
		return fmt.Sprintf("%s %s", seed.SuggestedAngle, firstHashtag(n))
	}
	return fmt.Sprintf("Jumping on %s, %s style %s", topic, strings.ToLower(n.DisplayName), firstHashtag(n))
}

func firstHashtag(n niche.Niche) string {
	if len(n.HashtagSeeds) == 0 {
		return ""
	}
	return "#" + n.HashtagSeeds[0]
}

// buildHashtags applies the tiered strategy: two broad tags, two
// mid-volume tags, one niche tag from the trend itself.
func buildHashtags(seed models.ScoredSignal, n niche.Niche) models.Hashtags {
	tags := models.Hashtags{}

	for i, s := range n.HashtagSeeds {
		tag := "#" + s
		switch {
		case i < 2:
			tags.Large = append(tags.Large, tag)
		case i < 4:
			tags.Medium = append(tags.Medium, tag)
		}
	}

	slug := strings.ToLower(strings.ReplaceAll(cleanTopic(seed.Name), " ", ""))
	if slug != "" {
		tags.Niche = []string{"#" + slug}
	}
	return tags
}

func difficultyLabel(score float64) string {
	switch {
	case score >= 0.75:
		return "easy"
	case score >= 0.5:
		return "medium"
	default:
		return "advanced"
	}
}

func timeEstimate(score float64) string {
	switch {
	case score >= 0.75:
		return "30 min"
	case score >= 0.5:
		return "1 hour"
	default:
		return "2 hours"
	}
}

// --- Calendar ---

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// postingCap parses a posting frequency like "3x per week" down to how
// many weekday reel slots to fill. Defaults to all five.
func postingCap(profile *models.BusinessProfile) int {
	cap := len(weekdays)
	if profile == nil || profile.PostingFrequency == nil {
		return cap
	}

	for _, field := range strings.Fields(*profile.PostingFrequency) {
		digits := strings.TrimRight(field, "x")
		if v, err := strconv.Atoi(digits); err == nil {
			if v < 1 {
				return 1
			}
			if v < cap {
				return v
			}
			return cap
		}
	}
	return cap
}

// reelPlatforms intersects profile preference with known platforms,
// falling back to the default set.
func reelPlatforms(profile *models.BusinessProfile, ref *schedule.Reference) []string {
	if profile == nil || len(profile.Platforms) == 0 {
		return schedule.DefaultReelPlatforms
	}

	var out []string
	for _, p := range profile.Platforms {
		if ref.Known(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return schedule.DefaultReelPlatforms
	}
	return out
}

// buildCalendar lays out the 7-day week: reel slots Monday-Friday up to
// the posting cap, evergreen themes on remaining weekdays, lightweight
// engagement Saturday, rest Sunday.
func buildCalendar(concepts []models.ReelConcept, n niche.Niche, profile *models.BusinessProfile, ref *schedule.Reference) []models.ContentPlanDay {
	platforms := reelPlatforms(profile, ref)
	cap := postingCap(profile)

	days := make([]models.ContentPlanDay, 0, 7)
	for i, day := range weekdays {
		if i < cap && len(concepts) > 0 {
			c := concepts[i%len(concepts)]
			days = append(days, models.ContentPlanDay{
				Day:          day,
				ConceptID:    c.ID,
				Title:        c.Title,
				Time:         ref.BestTime(platforms[0], i),
				Platforms:    append([]string(nil), platforms...),
				ContentType:  schedule.ContentTrending,
				Notes:        fmt.Sprintf("Lead with the hook: %s", c.Hook),
				PlatformTips: tipsFor(platforms, ref),
			})
			continue
		}

		theme := "your best moment of the week"
		if len(n.ContentThemes) > 0 {
			theme = n.ContentThemes[i%len(n.ContentThemes)]
		}
		days = append(days, models.ContentPlanDay{
			Day:          day,
			Title:        fmt.Sprintf("Evergreen: %s", theme),
			Time:         ref.BestTime(platforms[0], i),
			Platforms:    append([]string(nil), platforms...),
			ContentType:  schedule.ContentEvergreen,
			Notes:        "No trend hook needed, keep it authentic",
			PlatformTips: tipsFor(platforms, ref),
		})
	}

	saturdayPlatforms := []string{schedule.PlatformStories}
	days = append(days, models.ContentPlanDay{
		Day:          "Saturday",
		Title:        "Weekend poll: let your followers pick",
		Time:         ref.BestTime(schedule.PlatformStories, 5),
		Platforms:    saturdayPlatforms,
		ContentType:  schedule.ContentEngagement,
		Notes:        "Low effort, high engagement. Poll or question sticker.",
		PlatformTips: tipsFor(saturdayPlatforms, ref),
	})

	days = append(days, models.ContentPlanDay{
		Day:          "Sunday",
		Title:        "Rest / plan next week",
		Platforms:    []string{},
		ContentType:  schedule.ContentRest,
		Notes:        "Review this week's analytics, plan next week",
		PlatformTips: map[string]string{},
	})

	return days
}

func tipsFor(platforms []string, ref *schedule.Reference) map[string]string {
	tips := make(map[string]string, len(platforms))
	for _, p := range platforms {
		tips[p] = ref.DefaultTip(p)
	}
	return tips
}
