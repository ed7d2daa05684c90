// internal/connectors/tiktok.go
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	commonhttp "github.com/sorabhv/social-media-strategist/internal/common/http"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"
)

const tiktokHashtagPagePath = "/business/creativecenter/inspiration/popular/hashtag/pc/en"

var nextDataPattern = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)

// TikTokConnector pulls trending hashtags from the Creative Center SSR page
// and songs/videos from the creative-radar API.
type TikTokConnector struct {
	baseURL   string
	apiURL    string
	userAgent string
	client    *commonhttp.RateLimitedClient
	logger    logger.Logger
}

// TikTokOptions configures the connector.
type TikTokOptions struct {
	BaseURL     string
	APIURL      string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration
}

func NewTikTok(opts TikTokOptions, log logger.Logger) *TikTokConnector {
	ua := opts.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	}
	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = opts.BaseURL + "/creative_radar_api/v1/popular_trend"
	}
	return &TikTokConnector{
		baseURL:   opts.BaseURL,
		apiURL:    apiURL,
		userAgent: ua,
		client:    commonhttp.NewRateLimitedClient(opts.Timeout, opts.MinInterval),
		logger:    log,
	}
}

func (c *TikTokConnector) Name() string {
	return models.SourceTikTok
}

// Fetch runs the three fetch paths. A single path failing is tolerated; the
// connector fails only when every path produced nothing.
func (c *TikTokConnector) Fetch(ctx context.Context, q Query) ([]models.Signal, error) {
	var signals []models.Signal
	var firstErr error

	hashtags, err := c.fetchHashtags(ctx)
	if err != nil {
		c.logger.Warn("TikTok hashtag fetch failed", map[string]interface{}{"error": err.Error()})
		firstErr = err
	}
	signals = append(signals, hashtags...)

	songs, err := c.fetchSongs(ctx, q.Country)
	if err != nil {
		c.logger.Warn("TikTok song fetch failed", map[string]interface{}{"error": err.Error()})
		if firstErr == nil {
			firstErr = err
		}
	}
	signals = append(signals, songs...)

	videos, err := c.fetchVideos(ctx, q.Country)
	if err != nil {
		c.logger.Warn("TikTok video fetch failed", map[string]interface{}{"error": err.Error()})
		if firstErr == nil {
			firstErr = err
		}
	}
	signals = append(signals, videos...)

	if len(signals) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return signals, nil
}

// --- Hashtags via SSR ---

type tiktokTrendPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

type tiktokHashtagItem struct {
	HashtagName  string             `json:"hashtagName"`
	VideoViews   float64            `json:"videoViews"`
	PublishCnt   float64            `json:"publishCnt"`
	Rank         int                `json:"rank"`
	RankDiff     int                `json:"rankDiff"`
	RankDiffType int                `json:"rankDiffType"`
	IsPromoted   bool               `json:"isPromoted"`
	Trend        []tiktokTrendPoint `json:"trend"`
}

func (c *TikTokConnector) fetchHashtags(ctx context.Context) ([]models.Signal, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+tiktokHashtagPagePath, nil)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, fmt.Errorf("hashtag page returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, err)
	}

	m := nextDataPattern.FindSubmatch(body)
	if m == nil {
		return nil, commonerrors.NewSchemaDriftError(models.SourceTikTok, "no __NEXT_DATA__ script block in hashtag page")
	}

	var nextData struct {
		Props struct {
			PageProps struct {
				DehydratedState struct {
					Queries []struct {
						State struct {
							Data struct {
								Pages []struct {
									List []json.RawMessage `json:"list"`
								} `json:"pages"`
							} `json:"data"`
						} `json:"state"`
					} `json:"queries"`
				} `json:"dehydratedState"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal(m[1], &nextData); err != nil {
		return nil, commonerrors.NewSchemaDriftError(models.SourceTikTok, fmt.Sprintf("__NEXT_DATA__ parse: %v", err))
	}

	var rawItems []json.RawMessage
	for _, qr := range nextData.Props.PageProps.DehydratedState.Queries {
		if len(qr.State.Data.Pages) > 0 && len(qr.State.Data.Pages[0].List) > 0 {
			rawItems = qr.State.Data.Pages[0].List
			break
		}
	}

	now := time.Now().UTC()
	signals := make([]models.Signal, 0, len(rawItems))
	for _, raw := range rawItems {
		var item tiktokHashtagItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.IsPromoted || item.HashtagName == "" {
			continue
		}

		curve := trendCurve(item.Trend)
		signals = append(signals, models.Signal{
			ID:     fmt.Sprintf("tiktok_hashtag_%s", Slugify(item.HashtagName)),
			Source: models.SourceTikTok,
			Type:   models.TypeHashtag,
			Name:   "#" + item.HashtagName,
			Metrics: map[string]float64{
				"views": item.VideoViews,
				"posts": item.PublishCnt,
				"rank":  float64(item.Rank),
			},
			TextMetrics: map[string]string{
				"rank_change": RankChange(item.RankDiffType, item.RankDiff),
			},
			Trajectory:  ClassifyTrend(curve),
			TrendCurve:  curve,
			Rank:        item.Rank,
			Raw:         raw,
			CollectedAt: now,
		})
	}

	return signals, nil
}

// --- Songs and videos via creative-radar API ---

type tiktokRadarItem struct {
	Title        string             `json:"title"`
	Author       string             `json:"author"`
	Duration     float64            `json:"duration"`
	Rank         int                `json:"rank"`
	RankDiff     int                `json:"rank_diff"`
	RankDiffType int                `json:"rank_diff_type"`
	Promoted     bool               `json:"promoted"`
	Link         string             `json:"link"`
	ID           json.Number        `json:"id"`
	CountryCode  string             `json:"country_code"`
	Trend        []tiktokTrendPoint `json:"trend"`
}

func (c *TikTokConnector) fetchSongs(ctx context.Context, country string) ([]models.Signal, error) {
	rawItems, err := c.fetchRadar(ctx, "sound", country, "sound_list")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	signals := make([]models.Signal, 0, len(rawItems))
	for _, raw := range rawItems {
		var item tiktokRadarItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Promoted || item.Title == "" {
			continue
		}

		curve := trendCurve(item.Trend)
		signals = append(signals, models.Signal{
			ID:          fmt.Sprintf("tiktok_song_%s", Slugify(item.Title)),
			Source:      models.SourceTikTok,
			Type:        models.TypeSong,
			Name:        item.Title,
			Description: fmt.Sprintf("%s (%.0fs)", item.Author, item.Duration),
			Metrics: map[string]float64{
				"rank":     float64(item.Rank),
				"duration": item.Duration,
			},
			TextMetrics: map[string]string{
				"rank_change": RankChange(item.RankDiffType, item.RankDiff),
			},
			Trajectory:  ClassifyTrend(curve),
			TrendCurve:  curve,
			Rank:        item.Rank,
			URL:         item.Link,
			Raw:         raw,
			CollectedAt: now,
		})
	}

	return signals, nil
}

func (c *TikTokConnector) fetchVideos(ctx context.Context, country string) ([]models.Signal, error) {
	rawItems, err := c.fetchRadar(ctx, "video", country, "videos")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	signals := make([]models.Signal, 0, len(rawItems))
	for _, raw := range rawItems {
		var item tiktokRadarItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Promoted {
			continue
		}

		name := item.Title
		if name == "" {
			name = item.ID.String()
		}
		name = TruncateRunes(name, 100)

		signals = append(signals, models.Signal{
			ID:          fmt.Sprintf("tiktok_video_%s", Slugify(name)),
			Source:      models.SourceTikTok,
			Type:        models.TypeVideo,
			Name:        name,
			Description: fmt.Sprintf("%s, %.0fs", item.CountryCode, item.Duration),
			Metrics: map[string]float64{
				"duration": item.Duration,
			},
			Trajectory:  models.TrajectoryUnknown,
			URL:         item.Link,
			Raw:         raw,
			CollectedAt: now,
		})
	}

	return signals, nil
}

// fetchRadar gets one creative-radar ranking list and returns the raw items.
func (c *TikTokConnector) fetchRadar(ctx context.Context, contentType, country, listKey string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s/rank_list?period=7&page=1&limit=10&country_code=%s", c.apiURL, contentType, country)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, commonerrors.NewSourceUnavailableError(models.SourceTikTok, fmt.Errorf("%s rank list returned HTTP %d", contentType, resp.StatusCode))
	}

	var payload struct {
		Data map[string][]json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, commonerrors.NewSchemaDriftError(models.SourceTikTok, fmt.Sprintf("%s rank list parse: %v", contentType, err))
	}

	items, ok := payload.Data[listKey]
	if !ok {
		return nil, commonerrors.NewSchemaDriftError(models.SourceTikTok, fmt.Sprintf("%s rank list missing %q", contentType, listKey))
	}
	return items, nil
}

func trendCurve(points []tiktokTrendPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	curve := make([]float64, len(points))
	for i, p := range points {
		curve[i] = p.Value
	}
	return curve
}
