// Package schedule holds the posting-schedule reference: per-platform best
// times and algorithm tips, plus the weekly content-mix template.
package schedule

import (
	"encoding/json"
	"fmt"
	"os"
)

// Canonical platform names.
const (
	PlatformTikTok     = "TikTok"
	PlatformReels      = "Instagram Reels"
	PlatformShorts     = "YouTube Shorts"
	PlatformStories    = "Instagram Stories"
)

// Content types for calendar slots.
const (
	ContentTrending   = "trending"
	ContentEvergreen  = "evergreen"
	ContentEngagement = "engagement"
	ContentRest       = "rest"
)

// Platform describes one platform's posting guidance.
type Platform struct {
	BestTimes []string `json:"best_times"` // Mon..Sun, local clock times
	Tip       string   `json:"tip"`
}

// Reference is the loaded posting-schedule data.
type Reference struct {
	platforms map[string]Platform
}

var defaultPlatforms = map[string]Platform{
	PlatformTikTok: {
		BestTimes: []string{"7:30 AM", "12:00 PM", "5:00 PM", "8:00 AM", "3:00 PM", "10:00 AM", "11:00 AM"},
		Tip:       "Keep it under 15s, put a text hook on screen in the first frame, and reply to the top comment with a follow-up video",
	},
	PlatformReels: {
		BestTimes: []string{"8:00 AM", "12:30 PM", "6:00 PM", "9:00 AM", "4:00 PM", "11:00 AM", "10:00 AM"},
		Tip:       "Use 3-5 niche hashtags in the caption, set a custom cover image, and add the Reel to a highlight",
	},
	PlatformShorts: {
		BestTimes: []string{"9:00 AM", "1:00 PM", "7:00 PM", "10:00 AM", "5:00 PM", "12:00 PM", "11:00 AM"},
		Tip:       "Write a keyword-rich title, end with a subscribe CTA, and keep retention high in the first 3 seconds",
	},
	PlatformStories: {
		BestTimes: []string{"10:00 AM", "2:00 PM", "8:00 PM", "11:00 AM", "6:00 PM", "10:00 AM", "12:00 PM"},
		Tip:       "Use poll and question stickers across 2-3 story slides and prompt DM replies",
	},
}

// DefaultReelPlatforms is the platform set used when the profile states no
// preference.
var DefaultReelPlatforms = []string{PlatformTikTok, PlatformReels, PlatformShorts}

// Load returns the reference, applying a JSON override file when path is
// non-empty.
func Load(path string) (*Reference, error) {
	platforms := make(map[string]Platform, len(defaultPlatforms))
	for k, v := range defaultPlatforms {
		platforms[k] = v
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schedule reference %s: %w", path, err)
		}
		var override map[string]Platform
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to parse schedule reference %s: %w", path, err)
		}
		for k, v := range override {
			platforms[k] = v
		}
	}

	return &Reference{platforms: platforms}, nil
}

// MustLoadDefaults returns the compiled-in reference.
func MustLoadDefaults() *Reference {
	r, err := Load("")
	if err != nil {
		panic(err)
	}
	return r
}

// Known reports whether a platform has schedule data.
func (r *Reference) Known(platform string) bool {
	_, ok := r.platforms[platform]
	return ok
}

// BestTime returns the recommended posting time for a platform on a weekday
// index (0 = Monday). Unknown platforms get a safe mid-morning default.
func (r *Reference) BestTime(platform string, weekday int) string {
	p, ok := r.platforms[platform]
	if !ok || len(p.BestTimes) == 0 {
		return "10:00 AM"
	}
	if weekday < 0 || weekday >= len(p.BestTimes) {
		weekday = 0
	}
	return p.BestTimes[weekday]
}

// DefaultTip returns the platform's reference tip. It backs the plan
// invariant repair: every listed platform must carry a tip, so missing ones
// are filled from here.
func (r *Reference) DefaultTip(platform string) string {
	if p, ok := r.platforms[platform]; ok && p.Tip != "" {
		return p.Tip
	}
	return fmt.Sprintf("Post natively on %s and respond to early comments within the first hour", platform)
}
