// internal/workers/trends/score-trends/handler_test.go
package scoretrends

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReranker struct {
	rerankFunc func(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error)
}

func (f *fakeReranker) Rerank(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
	return f.rerankFunc(ctx, businessType, shortlist)
}

func newTestHandler(t *testing.T, reranker Reranker) *Handler {
	return NewHandler(LoadConfig(), reranker, logger.NewTestLogger(t))
}

func coffeeShopInput(t *testing.T, signals []models.Signal) *Input {
	return &Input{
		RunID:        "run-1",
		BusinessType: "coffee_shop",
		Country:      "US",
		Niche:        coffeeShopNiche(t),
		Signals:      signals,
	}
}

func mixedSignals() []models.Signal {
	return []models.Signal{
		{
			ID:     "reddit_coffee_best_coffee_shop_playlist",
			Source: models.SourceReddit,
			Type:   models.TypeRedditPost,
			Name:   "best coffee shop playlist",
			Metrics: map[string]float64{
				"score": 540, "upvote_ratio": 0.97,
			},
		},
		{
			ID:          "tiktok_hashtag_morningroutine",
			Source:      models.SourceTikTok,
			Type:        models.TypeHashtag,
			Name:        "#morningroutine",
			Rank:        2,
			Trajectory:  models.TrajectoryRising,
			Metrics:     map[string]float64{"views": 5_000_000},
			TextMetrics: map[string]string{"rank_change": "+3"},
		},
		{
			ID:     "google_trending_iced_latte",
			Source: models.SourceGoogleTrends,
			Type:   models.TypeSearchTrend,
			Name:   "iced latte",
		},
	}
}

func TestExecute_DeterministicOrder(t *testing.T) {
	h := newTestHandler(t, nil)
	input := coffeeShopInput(t, mixedSignals())

	output, err := h.execute(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, output.Shortlist, 3)
	// The rising hashtag dominates every factor for this niche
	assert.Equal(t, "tiktok_hashtag_morningroutine", output.Shortlist[0].ID)

	for i, s := range output.Shortlist {
		assert.Equal(t, i+1, s.ShortlistRank)
	}
	assert.Equal(t, 3, output.TotalScored)
	assert.Equal(t, 0, output.Excluded)
	assert.False(t, output.ExclusionFallback)

	// Same input, same order, byte for byte
	again, err := h.execute(context.Background(), coffeeShopInput(t, mixedSignals()))
	require.NoError(t, err)
	for i := range output.Shortlist {
		assert.Equal(t, output.Shortlist[i].ID, again.Shortlist[i].ID)
		assert.Equal(t, output.Shortlist[i].Scores, again.Shortlist[i].Scores)
	}
}

func TestExecute_ZeroWeightsFallBackToDefaults(t *testing.T) {
	h := newTestHandler(t, nil)
	input := coffeeShopInput(t, mixedSignals())
	input.Niche.Weights = niche.Weights{}

	output, err := h.execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, niche.DefaultWeights, output.Niche.Weights)
}

func TestExecute_InvalidWeights(t *testing.T) {
	h := newTestHandler(t, nil)
	input := coffeeShopInput(t, mixedSignals())
	input.Niche.Weights = niche.Weights{Relevance: 0.5, Virality: 0.4}

	_, err := h.execute(context.Background(), input)
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeInvalidWeights, stdErr.Code)
}

func TestExecute_ExclusionsFilterHard(t *testing.T) {
	h := newTestHandler(t, nil)

	signals := append(mixedSignals(), models.Signal{
		ID:     "tiktok_hashtag_dancingreels",
		Source: models.SourceTikTok,
		Type:   models.TypeHashtag,
		Name:   "#dancingreels",
		Rank:   1,
	})
	input := coffeeShopInput(t, signals)
	input.Profile = &models.BusinessProfile{
		ContentPreferences: models.StringPtr("no dancing reels, upbeat tone"),
	}

	output, err := h.execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, output.Excluded)
	assert.Len(t, output.Shortlist, 3)
	for _, s := range output.Shortlist {
		assert.NotEqual(t, "tiktok_hashtag_dancingreels", s.ID)
	}
	assert.False(t, output.ExclusionFallback)
}

func TestExecute_ExclusionFallbackWhenEverythingFiltered(t *testing.T) {
	h := newTestHandler(t, nil)

	signals := []models.Signal{
		{ID: "tiktok_hashtag_dancechallenge", Source: models.SourceTikTok, Type: models.TypeHashtag, Name: "#dancechallenge"},
		{ID: "tiktok_video_dance_tutorial", Source: models.SourceTikTok, Type: models.TypeVideo, Name: "dance tutorial"},
	}
	input := coffeeShopInput(t, signals)
	input.Profile = &models.BusinessProfile{
		ContentPreferences: models.StringPtr("no dancing"),
	}

	output, err := h.execute(context.Background(), input)
	require.NoError(t, err)

	// An empty shortlist helps nobody: the unfiltered ranking comes back
	// with the fallback flagged
	assert.True(t, output.ExclusionFallback)
	assert.Equal(t, 2, output.Excluded)
	assert.Len(t, output.Shortlist, 2)
}

func TestExecute_TopKTruncates(t *testing.T) {
	h := newTestHandler(t, nil)

	var signals []models.Signal
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		signals = append(signals, models.Signal{
			ID:     "tiktok_hashtag_" + id,
			Source: models.SourceTikTok,
			Type:   models.TypeHashtag,
			Name:   "#coffee" + id,
		})
	}
	input := coffeeShopInput(t, signals)
	input.TopK = 2

	output, err := h.execute(context.Background(), input)
	require.NoError(t, err)

	assert.Len(t, output.Shortlist, 2)
	assert.Equal(t, 5, output.TotalScored)
}

// twinSignals are identical except for their IDs, so their composites tie
// and the deterministic order is by ID.
func twinSignals() []models.Signal {
	return []models.Signal{
		{ID: "tiktok_hashtag_aaa", Source: models.SourceTikTok, Type: models.TypeHashtag, Name: "#coffee"},
		{ID: "tiktok_hashtag_bbb", Source: models.SourceTikTok, Type: models.TypeHashtag, Name: "#coffee"},
	}
}

func TestExecute_RerankAppliesWithinBand(t *testing.T) {
	reranker := &fakeReranker{
		rerankFunc: func(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
			return []RerankAdjustment{
				{ID: "tiktok_hashtag_bbb", Adjustment: 0.01, SuggestedAngle: "lean into slow mornings"},
			}, nil
		},
	}
	h := newTestHandler(t, reranker)

	output, err := h.execute(context.Background(), coffeeShopInput(t, twinSignals()))
	require.NoError(t, err)

	require.Len(t, output.Shortlist, 2)
	assert.Equal(t, "tiktok_hashtag_bbb", output.Shortlist[0].ID)
	assert.Equal(t, "lean into slow mornings", output.Shortlist[0].SuggestedAngle)
	assert.Equal(t, 1, output.Shortlist[0].ShortlistRank)

	// Stored scores stay the pure deterministic values
	assert.Equal(t, output.Shortlist[0].Scores.Composite, output.Shortlist[1].Scores.Composite)
}

func TestExecute_RerankOutOfBandDiscardsPass(t *testing.T) {
	reranker := &fakeReranker{
		rerankFunc: func(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
			return []RerankAdjustment{
				{ID: "tiktok_hashtag_bbb", Adjustment: 0.2},
			}, nil
		},
	}
	h := newTestHandler(t, reranker)

	output, err := h.execute(context.Background(), coffeeShopInput(t, twinSignals()))
	require.NoError(t, err)

	assert.Equal(t, "tiktok_hashtag_aaa", output.Shortlist[0].ID)
	assert.Empty(t, output.Shortlist[0].SuggestedAngle)
}

func TestExecute_RerankUnknownSignalDiscardsPass(t *testing.T) {
	reranker := &fakeReranker{
		rerankFunc: func(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
			return []RerankAdjustment{
				{ID: "tiktok_hashtag_hallucinated", Adjustment: 0.01},
			}, nil
		},
	}
	h := newTestHandler(t, reranker)

	output, err := h.execute(context.Background(), coffeeShopInput(t, twinSignals()))
	require.NoError(t, err)
	assert.Equal(t, "tiktok_hashtag_aaa", output.Shortlist[0].ID)
}

func TestExecute_RerankErrorKeepsDeterministicOrder(t *testing.T) {
	reranker := &fakeReranker{
		rerankFunc: func(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
			return nil, errors.New("model overloaded")
		},
	}
	h := newTestHandler(t, reranker)

	output, err := h.execute(context.Background(), coffeeShopInput(t, twinSignals()))
	require.NoError(t, err)
	assert.Equal(t, "tiktok_hashtag_aaa", output.Shortlist[0].ID)
	assert.Equal(t, "tiktok_hashtag_bbb", output.Shortlist[1].ID)
}

func TestExecute_RerankContextBoundedByGenAITimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	reranker := &fakeReranker{
		rerankFunc: func(ctx context.Context, businessType string, shortlist []models.ScoredSignal) ([]RerankAdjustment, error) {
			deadline, hasDeadline = ctx.Deadline()
			return nil, nil
		},
	}

	cfg := LoadConfig()
	cfg.GenAITimeout = 5 * time.Second
	h := NewHandler(cfg, reranker, logger.NewTestLogger(t))

	before := time.Now()
	_, err := h.execute(context.Background(), coffeeShopInput(t, twinSignals()))
	require.NoError(t, err)

	// The parent context carries no deadline, so the one the reranker saw
	// can only come from the rerank budget.
	require.True(t, hasDeadline)
	assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
}
