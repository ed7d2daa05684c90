// internal/connectors/connector_test.go
package connectors

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sorabhv/social-media-strategist/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Morning Routine", "morning_routine"},
		{"hashtag", "#MorningRoutine", "morningroutine"},
		{"punctuation runs", "best coffee -- shop!! playlist", "best_coffee_shop_playlist"},
		{"leading and trailing junk", "  ?!latte art?!  ", "latte_art"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}

	t.Run("caps at 60 characters", func(t *testing.T) {
		long := ""
		for i := 0; i < 20; i++ {
			long += "abcdefghij "
		}
		slug := Slugify(long)
		assert.LessOrEqual(t, len(slug), 60)
		assert.NotEqual(t, byte('_'), slug[len(slug)-1])
	})
}

func TestTruncateRunes(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "latte art", TruncateRunes("latte art", 40))
	})

	t.Run("caps at the rune count", func(t *testing.T) {
		assert.Equal(t, "abcde", TruncateRunes("abcdefgh", 5))
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		title := strings.Repeat("コーヒー", 40) // 4 runes, 12 bytes per repeat
		got := TruncateRunes(title, 120)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 120, utf8.RuneCountInString(got))
	})

	t.Run("emoji heavy titles stay valid", func(t *testing.T) {
		got := TruncateRunes(strings.Repeat("☕", 50), 40)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 40, utf8.RuneCountInString(got))
	})
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected string
	}{
		{"too short", []float64{1, 2, 3}, models.TrajectoryUnknown},
		{"all zero", []float64{0, 0, 0, 0, 0, 0}, models.TrajectoryFlat},
		{"rising", []float64{10, 12, 11, 20, 25, 30}, models.TrajectoryRising},
		{"declining", []float64{30, 28, 29, 10, 8, 6}, models.TrajectoryDeclining},
		{"stable", []float64{10, 10, 10, 10, 10, 10}, models.TrajectoryStable},
		{"spike then collapse", []float64{10, 20, 100, 5, 4, 3}, models.TrajectorySpike},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTrend(tt.values))
		})
	}
}

func TestRankChange(t *testing.T) {
	assert.Equal(t, "+2", RankChange(rankDiffUp, 2))
	assert.Equal(t, "-1", RankChange(rankDiffDown, 1))
	assert.Equal(t, "NEW", RankChange(rankDiffNew, 0))
	assert.Equal(t, "0", RankChange(rankDiffStable, 0))
	assert.Equal(t, "0", RankChange(99, 5))
}
