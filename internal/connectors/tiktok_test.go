// internal/connectors/tiktok_test.go
package connectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashtagPageHTML(listJSON string) string {
	nextData := fmt.Sprintf(`{
		"props": {"pageProps": {"dehydratedState": {"queries": [
			{"state": {"data": {"pages": [{"list": %s}]}}}
		]}}}
	}`, listJSON)
	return fmt.Sprintf(`<html><body><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`, nextData)
}

const sampleHashtagList = `[
	{"hashtagName": "morningroutine", "videoViews": 5000000, "publishCnt": 12000, "rank": 2,
	 "rankDiff": 3, "rankDiffType": 1, "isPromoted": false,
	 "trend": [{"time": 1, "value": 10}, {"time": 2, "value": 12}, {"time": 3, "value": 11}, {"time": 4, "value": 20}, {"time": 5, "value": 25}, {"time": 6, "value": 30}]},
	{"hashtagName": "ad_campaign", "videoViews": 9000000, "publishCnt": 500, "rank": 1,
	 "rankDiff": 0, "rankDiffType": 4, "isPromoted": true, "trend": []}
]`

func sampleRadarJSON(listKey, itemsJSON string) string {
	return fmt.Sprintf(`{"data": {"%s": %s}}`, listKey, itemsJSON)
}

func newTikTokTestServer(t *testing.T, hashtagStatus int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/inspiration/popular/hashtag"):
			if hashtagStatus != http.StatusOK {
				w.WriteHeader(hashtagStatus)
				return
			}
			fmt.Fprint(w, hashtagPageHTML(sampleHashtagList))
		case strings.Contains(r.URL.Path, "/sound/rank_list"):
			fmt.Fprint(w, sampleRadarJSON("sound_list", `[
				{"title": "Golden Hour", "author": "JVKE", "duration": 15, "rank": 1,
				 "rank_diff": 2, "rank_diff_type": 1, "promoted": false,
				 "link": "https://www.tiktok.com/music/golden-hour-1"},
				{"title": "Sponsored Jingle", "author": "Brand", "duration": 10, "rank": 2, "promoted": true}
			]`))
		case strings.Contains(r.URL.Path, "/video/rank_list"):
			fmt.Fprint(w, sampleRadarJSON("videos", `[
				{"title": "POV: opening the shop at 6am", "duration": 22, "rank": 1,
				 "promoted": false, "link": "https://www.tiktok.com/@x/video/1", "country_code": "US"}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTikTokConnector(t *testing.T, baseURL string) *TikTokConnector {
	return NewTikTok(TikTokOptions{
		BaseURL: baseURL,
		APIURL:  baseURL + "/creative_radar_api/v1/popular_trend",
		Timeout: 5 * time.Second,
	}, logger.NewTestLogger(t))
}

func TestTikTok_Fetch(t *testing.T) {
	server := newTikTokTestServer(t, http.StatusOK)
	defer server.Close()

	conn := newTikTokConnector(t, server.URL)
	signals, err := conn.Fetch(context.Background(), Query{Country: "US"})
	require.NoError(t, err)

	// Promoted entries are dropped from both hashtags and songs
	require.Len(t, signals, 3)

	hashtag := signals[0]
	assert.Equal(t, "tiktok_hashtag_morningroutine", hashtag.ID)
	assert.Equal(t, models.TypeHashtag, hashtag.Type)
	assert.Equal(t, "#morningroutine", hashtag.Name)
	assert.Equal(t, 2, hashtag.Rank)
	assert.Equal(t, "+3", hashtag.TextMetrics["rank_change"])
	assert.Equal(t, models.TrajectoryRising, hashtag.Trajectory)
	assert.Equal(t, 5000000.0, hashtag.Metrics["views"])

	song := signals[1]
	assert.Equal(t, "tiktok_song_golden_hour", song.ID)
	assert.Equal(t, models.TypeSong, song.Type)
	assert.Equal(t, "Golden Hour", song.Name)
	assert.Equal(t, "https://www.tiktok.com/music/golden-hour-1", song.URL)
	assert.Equal(t, "+2", song.TextMetrics["rank_change"])

	video := signals[2]
	assert.Equal(t, models.TypeVideo, video.Type)
	assert.Equal(t, "tiktok_video_pov_opening_the_shop_at_6am", video.ID)
}

func TestTikTok_Fetch_HashtagFailureTolerated(t *testing.T) {
	server := newTikTokTestServer(t, http.StatusForbidden)
	defer server.Close()

	conn := newTikTokConnector(t, server.URL)
	signals, err := conn.Fetch(context.Background(), Query{Country: "US"})
	require.NoError(t, err)

	// Songs and videos still flow when the SSR page is blocked
	assert.Len(t, signals, 2)
}

func TestTikTok_Fetch_AllPathsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	conn := newTikTokConnector(t, server.URL)
	_, err := conn.Fetch(context.Background(), Query{Country: "US"})
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSourceUnavailable, stdErr.Code)
}

func TestTikTok_Fetch_SchemaDrift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/inspiration/popular/hashtag"):
			// Page markup without the embedded state block
			fmt.Fprint(w, `<html><body>nothing here</body></html>`)
		case strings.Contains(r.URL.Path, "/rank_list"):
			// Rank list payload without the expected list key
			fmt.Fprint(w, `{"data": {"unexpected": []}}`)
		}
	}))
	defer server.Close()

	conn := newTikTokConnector(t, server.URL)
	_, err := conn.Fetch(context.Background(), Query{Country: "US"})
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSchemaDrift, stdErr.Code)
}
