// internal/connectors/googletrends.go
package connectors

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	commonhttp "github.com/sorabhv/social-media-strategist/internal/common/http"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"
)

// GoogleTrendsConnector reads the daily trending-searches RSS feed and the
// related-queries endpoint for the niche's keywords.
type GoogleTrendsConnector struct {
	rssURL     string
	relatedURL string
	client     *commonhttp.RateLimitedClient
	logger     logger.Logger
}

// GoogleTrendsOptions configures the connector.
type GoogleTrendsOptions struct {
	RSSURL      string
	RelatedURL  string
	Timeout     time.Duration
	MinInterval time.Duration
}

func NewGoogleTrends(opts GoogleTrendsOptions, log logger.Logger) *GoogleTrendsConnector {
	return &GoogleTrendsConnector{
		rssURL:     opts.RSSURL,
		relatedURL: opts.RelatedURL,
		client:     commonhttp.NewRateLimitedClient(opts.Timeout, opts.MinInterval),
		logger:     log,
	}
}

func (c *GoogleTrendsConnector) Name() string {
	return models.SourceGoogleTrends
}

// Fetch pulls the trending RSS and, keywords permitting, related queries.
// The RSS feed is the primary path; a related-queries failure alone does not
// fail the connector.
func (c *GoogleTrendsConnector) Fetch(ctx context.Context, q Query) ([]models.Signal, error) {
	signals, err := c.fetchTrendingRSS(ctx, q.Country)
	if err != nil {
		return nil, err
	}

	if c.relatedURL != "" && len(q.Keywords) > 0 {
		related, err := c.fetchRelatedQueries(ctx, q.Country, q.Keywords)
		if err != nil {
			c.logger.Warn("Google related-queries fetch failed", map[string]interface{}{"error": err.Error()})
		} else {
			signals = append(signals, related...)
		}
	}

	return signals, nil
}

// --- Trending searches RSS ---

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title         string        `xml:"title"`
	ApproxTraffic string        `xml:"approx_traffic"`
	NewsItems     []rssNewsItem `xml:"news_item"`
}

type rssNewsItem struct {
	Title string `xml:"news_item_title"`
}

func (c *GoogleTrendsConnector) fetchTrendingRSS(ctx context.Context, country string) ([]models.Signal, error) {
	req, err := http.NewRequest(http.MethodGet, c.rssURL+"?geo="+url.QueryEscape(country), nil)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceGoogleTrends, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceGoogleTrends, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceGoogleTrends, fmt.Errorf("RSS returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceGoogleTrends, err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, commonerrors.NewSchemaDriftError(models.SourceGoogleTrends, fmt.Sprintf("RSS parse: %v", err))
	}

	now := time.Now().UTC()
	signals := make([]models.Signal, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		desc := ""
		if len(item.NewsItems) > 0 {
			desc = item.NewsItems[0].Title
		}

		sig := models.Signal{
			ID:          fmt.Sprintf("google_trending_%s", Slugify(title)),
			Source:      models.SourceGoogleTrends,
			Type:        models.TypeSearchTrend,
			Name:        title,
			Description: desc,
			Trajectory:  models.TrajectoryUnknown,
			CollectedAt: now,
		}
		if item.ApproxTraffic != "" {
			sig.TextMetrics = map[string]string{"search_volume": item.ApproxTraffic}
		}
		signals = append(signals, sig)
	}

	return signals, nil
}

// --- Related queries ---

type relatedQueriesResponse struct {
	Top    []relatedQuery `json:"top"`
	Rising []relatedQuery `json:"rising"`
}

type relatedQuery struct {
	Query string  `json:"query"`
	Value float64 `json:"value"`
}

// fetchRelatedQueries asks the related-queries endpoint for up to 5 keywords
// and keeps the top 3 queries of each bucket per keyword.
func (c *GoogleTrendsConnector) fetchRelatedQueries(ctx context.Context, country string, keywords []string) ([]models.Signal, error) {
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	now := time.Now().UTC()
	var signals []models.Signal
	for _, kw := range keywords {
		reqURL := fmt.Sprintf("%s?keyword=%s&geo=%s&timeframe=%s",
			c.relatedURL, url.QueryEscape(kw), url.QueryEscape(country), url.QueryEscape("today 1-m"))
		req, err := http.NewRequest(http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, commonerrors.NewSourceUnavailableError(models.SourceGoogleTrends, err)
		}

		resp, err := c.client.DoWithContext(ctx, req)
		if err != nil {
			return nil, commonerrors.NewSourceUnavailableError(models.SourceGoogleTrends, err)
		}

		var payload relatedQueriesResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, commonerrors.NewSchemaDriftError(models.SourceGoogleTrends, fmt.Sprintf("related queries parse: %v", decodeErr))
		}

		signals = append(signals, relatedSignals(kw, "top", payload.Top, now)...)
		signals = append(signals, relatedSignals(kw, "rising", payload.Rising, now)...)
	}

	return signals, nil
}

func relatedSignals(keyword, bucket string, queries []relatedQuery, now time.Time) []models.Signal {
	if len(queries) > 3 {
		queries = queries[:3]
	}

	trajectory := models.TrajectoryUnknown
	if bucket == "rising" {
		trajectory = models.TrajectoryRising
	}

	signals := make([]models.Signal, 0, len(queries))
	for _, rq := range queries {
		if rq.Query == "" {
			continue
		}
		signals = append(signals, models.Signal{
			ID:          fmt.Sprintf("google_related_%s", Slugify(rq.Query)),
			Source:      models.SourceGoogleTrends,
			Type:        models.TypeRelatedQuery,
			Name:        rq.Query,
			Description: fmt.Sprintf("Related to '%s' (%s)", keyword, bucket),
			Metrics:     map[string]float64{"value": rq.Value},
			Trajectory:  trajectory,
			Related:     []string{keyword},
			CollectedAt: now,
		})
	}
	return signals
}
