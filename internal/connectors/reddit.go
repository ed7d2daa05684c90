// internal/connectors/reddit.go
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	commonhttp "github.com/sorabhv/social-media-strategist/internal/common/http"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"
)

// RedditConnector fetches hot and rising posts from the niche's subreddits.
type RedditConnector struct {
	baseURL   string
	userAgent string
	client    *commonhttp.RateLimitedClient
	logger    logger.Logger
}

// RedditOptions configures the connector.
type RedditOptions struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration
}

func NewReddit(opts RedditOptions, log logger.Logger) *RedditConnector {
	ua := opts.UserAgent
	if ua == "" {
		ua = "SocialStrategistAgent/1.0"
	}
	return &RedditConnector{
		baseURL:   opts.BaseURL,
		userAgent: ua,
		client:    commonhttp.NewRateLimitedClient(opts.Timeout, opts.MinInterval),
		logger:    log,
	}
}

func (c *RedditConnector) Name() string {
	return models.SourceReddit
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	NumComments float64 `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	Permalink   string  `json:"permalink"`
}

// Fetch walks every configured subreddit's hot and rising listings. A
// subreddit failing is tolerated; the connector fails only when every
// listing failed.
func (c *RedditConnector) Fetch(ctx context.Context, q Query) ([]models.Signal, error) {
	if len(q.Subreddits) == 0 {
		return nil, nil
	}

	var signals []models.Signal
	var firstErr error
	attempted, failed := 0, 0

	for _, sub := range q.Subreddits {
		for _, listing := range []string{"hot", "rising"} {
			attempted++
			listed, err := c.fetchListing(ctx, sub, listing)
			if err != nil {
				failed++
				c.logger.Warn("Reddit listing fetch failed", map[string]interface{}{
					"subreddit": sub,
					"listing":   listing,
					"error":     err.Error(),
				})
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			signals = append(signals, listed...)
		}
	}

	if failed == attempted && firstErr != nil {
		return nil, firstErr
	}
	return signals, nil
}

func (c *RedditConnector) fetchListing(ctx context.Context, sub, listing string) ([]models.Signal, error) {
	url := fmt.Sprintf("%s/r/%s/%s.json?limit=10&t=week", c.baseURL, sub, listing)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceReddit, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceReddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceReddit, fmt.Errorf("r/%s/%s returned HTTP %d", sub, listing, resp.StatusCode))
	}

	var payload redditListing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, commonerrors.NewSchemaDriftError(models.SourceReddit, fmt.Sprintf("r/%s/%s parse: %v", sub, listing, err))
	}

	now := time.Now().UTC()
	signals := make([]models.Signal, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		var post redditPost
		if err := json.Unmarshal(child.Data, &post); err != nil {
			continue
		}
		if post.Title == "" {
			continue
		}
		// Low-score hot posts are stale noise
		if listing == "hot" && post.Score < 2 {
			continue
		}

		titleSlug := TruncateRunes(post.Title, 40)
		name := TruncateRunes(post.Title, 120)

		signals = append(signals, models.Signal{
			ID:          fmt.Sprintf("reddit_%s_%s", Slugify(sub), Slugify(titleSlug)),
			Source:      models.SourceReddit,
			Type:        models.TypeRedditPost,
			Name:        name,
			Description: fmt.Sprintf("r/%s (%s)", sub, listing),
			Metrics: map[string]float64{
				"score":        post.Score,
				"comments":     post.NumComments,
				"upvote_ratio": post.UpvoteRatio,
			},
			Trajectory:  models.TrajectoryUnknown,
			URL:         "https://reddit.com" + post.Permalink,
			Raw:         child.Data,
			CollectedAt: now,
		})
	}

	return signals, nil
}
