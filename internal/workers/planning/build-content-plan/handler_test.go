// internal/workers/planning/build-content-plan/handler_test.go
package buildcontentplan

import (
	"context"
	"testing"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
	"github.com/sorabhv/social-media-strategist/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), schedule.MustLoadDefaults(), logger.NewTestLogger(t))
}

func coffeeShopNiche(t *testing.T) niche.Niche {
	n, ok := niche.MustLoadDefaults().Get("coffee_shop")
	require.True(t, ok)
	return n
}

func scored(id, signalType, name string, rank int) models.ScoredSignal {
	return models.ScoredSignal{
		Signal: models.Signal{ID: id, Type: signalType, Name: name},
		Scores: models.Scores{Composite: 1.0 - 0.05*float64(rank), Difficulty: 0.8},
		ShortlistRank: rank,
	}
}

func sampleShortlist() []models.ScoredSignal {
	song := scored("tiktok_song_golden_hour", models.TypeSong, "Golden Hour", 3)
	song.URL = "https://www.tiktok.com/music/golden-hour-1"
	return []models.ScoredSignal{
		scored("tiktok_hashtag_morningroutine", models.TypeHashtag, "#morningroutine", 1),
		scored("google_trending_iced_latte", models.TypeSearchTrend, "iced latte", 2),
		song,
		scored("reddit_coffee_playlist", models.TypeRedditPost, "best coffee shop playlist", 4),
	}
}

func planInput(t *testing.T, shortlist []models.ScoredSignal, profile *models.BusinessProfile) *Input {
	return &Input{
		RunID:        "run-9",
		BusinessType: "coffee_shop",
		Country:      "US",
		Niche:        coffeeShopNiche(t),
		Shortlist:    shortlist,
		Profile:      profile,
	}
}

func TestExecute_BuildsFullWeek(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.execute(context.Background(), planInput(t, sampleShortlist(), nil))
	require.NoError(t, err)

	assert.Equal(t, "run-9", output.RunID)
	assert.NotEmpty(t, output.GeneratedAt)
	assert.Len(t, output.Concepts, 4)
	require.Len(t, output.Calendar, 7)

	// Monday through Friday are trending slots with no posting cap set
	for i := 0; i < 5; i++ {
		day := output.Calendar[i]
		assert.Equal(t, schedule.ContentTrending, day.ContentType, day.Day)
		assert.NotEmpty(t, day.ConceptID, day.Day)
		assert.Equal(t, schedule.DefaultReelPlatforms, day.Platforms)
	}

	assert.Equal(t, "Saturday", output.Calendar[5].Day)
	assert.Equal(t, schedule.ContentEngagement, output.Calendar[5].ContentType)
	assert.Equal(t, []string{schedule.PlatformStories}, output.Calendar[5].Platforms)

	sunday := output.Calendar[6]
	assert.Equal(t, schedule.ContentRest, sunday.ContentType)
	assert.Empty(t, sunday.Platforms)
	assert.Empty(t, sunday.PlatformTips)
}

func TestExecute_EveryDayHasCompleteTips(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.execute(context.Background(), planInput(t, sampleShortlist(), nil))
	require.NoError(t, err)

	for _, day := range output.Calendar {
		assert.True(t, day.TipsComplete(), day.Day)
		for platform, tip := range day.PlatformTips {
			assert.NotEmpty(t, tip, "%s/%s", day.Day, platform)
		}
	}
	// Nothing needed repair: the builder emits complete tip maps itself
	assert.Zero(t, output.TipsSynthesized)
}

func TestExecute_ProfilePlatformsNarrowTheCalendar(t *testing.T) {
	h := newTestHandler(t)
	profile := &models.BusinessProfile{
		Platforms: []string{schedule.PlatformTikTok, schedule.PlatformReels, "MySpace"},
	}

	output, err := h.execute(context.Background(), planInput(t, sampleShortlist(), profile))
	require.NoError(t, err)

	tuesday := output.Calendar[1]
	require.Equal(t, "Tuesday", tuesday.Day)
	assert.Equal(t, []string{schedule.PlatformTikTok, schedule.PlatformReels}, tuesday.Platforms)
	assert.Len(t, tuesday.PlatformTips, 2)
	assert.Contains(t, tuesday.PlatformTips, schedule.PlatformTikTok)
	assert.Contains(t, tuesday.PlatformTips, schedule.PlatformReels)
	// Tuesday slot uses the lead platform's Tuesday time
	assert.Equal(t, "12:00 PM", tuesday.Time)
}

func TestExecute_PostingFrequencyCapsTrendingDays(t *testing.T) {
	h := newTestHandler(t)
	profile := &models.BusinessProfile{
		PostingFrequency: models.StringPtr("3x per week"),
	}

	output, err := h.execute(context.Background(), planInput(t, sampleShortlist(), profile))
	require.NoError(t, err)

	trending, evergreen := 0, 0
	for _, day := range output.Calendar[:5] {
		switch day.ContentType {
		case schedule.ContentTrending:
			trending++
		case schedule.ContentEvergreen:
			evergreen++
		}
	}
	assert.Equal(t, 3, trending)
	assert.Equal(t, 2, evergreen)
}

func TestExecute_EmptyShortlist(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.execute(context.Background(), planInput(t, nil, nil))
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.False(t, stdErr.Retryable)
}

func TestEnsureTips_RepairsGaps(t *testing.T) {
	h := newTestHandler(t)

	calendar := []models.ContentPlanDay{
		{
			Day:       "Monday",
			Platforms: []string{schedule.PlatformTikTok, schedule.PlatformReels},
			PlatformTips: map[string]string{
				schedule.PlatformTikTok: "existing tip",
				schedule.PlatformReels:  "",
			},
		},
		{
			Day:       "Tuesday",
			Platforms: []string{schedule.PlatformShorts},
		},
	}

	synthesized := h.ensureTips(calendar)
	assert.Equal(t, 2, synthesized)

	assert.Equal(t, "existing tip", calendar[0].PlatformTips[schedule.PlatformTikTok])
	assert.NotEmpty(t, calendar[0].PlatformTips[schedule.PlatformReels])
	assert.True(t, calendar[1].TipsComplete())
}

func TestSelectSeeds_TypeDiversity(t *testing.T) {
	shortlist := []models.ScoredSignal{
		scored("h1", models.TypeHashtag, "#a", 1),
		scored("h2", models.TypeHashtag, "#b", 2),
		scored("h3", models.TypeHashtag, "#c", 3),
		scored("s1", models.TypeSearchTrend, "q1", 4),
		scored("r1", models.TypeRedditPost, "p1", 5),
	}

	seeds := selectSeeds(shortlist, 4)
	require.Len(t, seeds, 4)

	// The third hashtag yields to the lower-ranked but different types
	ids := []string{seeds[0].ID, seeds[1].ID, seeds[2].ID, seeds[3].ID}
	assert.Equal(t, []string{"h1", "h2", "s1", "r1"}, ids)
}

func TestSelectSeeds_FillsWhenVarietyExhausted(t *testing.T) {
	shortlist := []models.ScoredSignal{
		scored("h1", models.TypeHashtag, "#a", 1),
		scored("h2", models.TypeHashtag, "#b", 2),
		scored("h3", models.TypeHashtag, "#c", 3),
	}

	seeds := selectSeeds(shortlist, 3)
	require.Len(t, seeds, 3)
	assert.Equal(t, "h3", seeds[2].ID)
}

func TestBuildConcepts_SoundInjection(t *testing.T) {
	n := coffeeShopNiche(t)
	shortlist := sampleShortlist()
	seeds := selectSeeds(shortlist, 4)

	concepts := buildConcepts(seeds, shortlist, n)
	require.Len(t, concepts, 4)

	for _, c := range concepts {
		if c.TrendID == "tiktok_song_golden_hour" {
			// The song seed carries its own sound
			assert.Equal(t, "Golden Hour", c.Sound)
			assert.Equal(t, "https://www.tiktok.com/music/golden-hour-1", c.SoundLink)
		} else {
			// Everyone else borrows the shortlist's trending song
			assert.Equal(t, "Golden Hour", c.Sound)
			assert.Equal(t, "https://www.tiktok.com/music/golden-hour-1", c.SoundLink)
		}
	}
}

func TestBuildConcepts_UsesSuggestedAngle(t *testing.T) {
	n := coffeeShopNiche(t)
	seed := scored("tiktok_hashtag_morningroutine", models.TypeHashtag, "#morningroutine", 1)
	seed.SuggestedAngle = "Show the 6am opening ritual"

	concepts := buildConcepts([]models.ScoredSignal{seed}, []models.ScoredSignal{seed}, n)
	require.Len(t, concepts, 1)
	assert.Contains(t, concepts[0].Caption, "Show the 6am opening ritual")
}

func TestBuildConcepts_HashtagTiers(t *testing.T) {
	n := coffeeShopNiche(t)
	seed := scored("google_trending_iced_latte", models.TypeSearchTrend, "iced latte", 1)

	concepts := buildConcepts([]models.ScoredSignal{seed}, []models.ScoredSignal{seed}, n)
	require.Len(t, concepts, 1)

	tags := concepts[0].Hashtags
	assert.Equal(t, []string{"#coffee", "#coffeeshop"}, tags.Large)
	assert.Equal(t, []string{"#barista", "#latteart"}, tags.Medium)
	assert.Equal(t, []string{"#icedlatte"}, tags.Niche)
}

func TestHookPattern(t *testing.T) {
	tests := []struct {
		name     string
		signal   models.ScoredSignal
		expected string
	}{
		{"song", scored("s", models.TypeSong, "x", 1), models.HookChallenge},
		{"rising hashtag", func() models.ScoredSignal {
			s := scored("h", models.TypeHashtag, "x", 1)
			s.Trajectory = models.TrajectoryRising
			return s
		}(), models.HookChallenge},
		{"flat hashtag", scored("h", models.TypeHashtag, "x", 1), models.HookQuestion},
		{"search trend", scored("q", models.TypeSearchTrend, "x", 1), models.HookListicle},
		{"related query", scored("rq", models.TypeRelatedQuery, "x", 1), models.HookTutorial},
		{"reddit post", scored("r", models.TypeRedditPost, "x", 1), models.HookReveal},
		{"video", scored("v", models.TypeVideo, "x", 1), models.HookBeforeAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hookPattern(tt.signal))
		})
	}
}

func TestPostingCap(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.BusinessProfile
		expected int
	}{
		{"nil profile", nil, 5},
		{"no frequency", &models.BusinessProfile{}, 5},
		{"3x per week", &models.BusinessProfile{PostingFrequency: models.StringPtr("3x per week")}, 3},
		{"daily number", &models.BusinessProfile{PostingFrequency: models.StringPtr("2 times weekly")}, 2},
		{"zero clamps up", &models.BusinessProfile{PostingFrequency: models.StringPtr("0x")}, 1},
		{"huge clamps down", &models.BusinessProfile{PostingFrequency: models.StringPtr("14x per week")}, 5},
		{"unparseable", &models.BusinessProfile{PostingFrequency: models.StringPtr("whenever we can")}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, postingCap(tt.profile))
		})
	}
}

func TestDifficultyLabel(t *testing.T) {
	assert.Equal(t, "easy", difficultyLabel(0.9))
	assert.Equal(t, "medium", difficultyLabel(0.6))
	assert.Equal(t, "advanced", difficultyLabel(0.4))
}
