// internal/profile/store_test.go
package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileColumns = []string{
	"business_name", "business_type", "country", "location_detail",
	"target_audience", "brand_voice", "content_preferences",
	"posting_frequency", "platforms", "additional_notes", "to_char",
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func newMockedStore(t *testing.T, cache *redis.Client) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, cache, logger.NewTestLogger(t))
	store.SetClock(fixedClock)
	return store, mock
}

func miniredisClient(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRead_MissReadsDBThenServesFromCache(t *testing.T) {
	cache := miniredisClient(t)
	store, mock := newMockedStore(t, cache)

	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(
		sqlmock.NewRows(profileColumns).AddRow(
			"Bean There", "coffee_shop", "US", nil,
			nil, nil, nil,
			"3x per week", "{TikTok}", nil, "2026-08-01",
		),
	)

	p, err := store.Read(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Bean There", *p.BusinessName)
	assert.Equal(t, []string{"TikTok"}, p.Platforms)
	assert.Equal(t, "2026-08-01", *p.LastUpdated)

	// Second read must not touch Postgres: only one query was expected
	again, err := store.Read(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead_MissingRowIsEmptySentinel(t *testing.T) {
	store, mock := newMockedStore(t, nil)

	mock.ExpectQuery("SELECT business_name").WithArgs("ghost").WillReturnRows(
		sqlmock.NewRows(profileColumns),
	)

	p, err := store.Read(context.Background(), "ghost")
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestRead_DBError(t *testing.T) {
	store, mock := newMockedStore(t, nil)

	mock.ExpectQuery("SELECT business_name").WillReturnError(errors.New("connection reset"))

	_, err := store.Read(context.Background(), "p1")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeProfileReadFailed, stdErr.Code)
}

func TestMerge_AppliesDeltaFieldLevel(t *testing.T) {
	store, mock := newMockedStore(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(
		sqlmock.NewRows(profileColumns).AddRow(
			nil, "bakery", nil, nil,
			nil, nil, nil,
			nil, nil, nil, "2026-08-01",
		),
	)
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	delta := models.ProfileDelta{
		ContentPreferences: models.StringPtr("no dancing reels"),
	}
	merged, err := store.Merge(context.Background(), "p1", delta, "")
	require.NoError(t, err)

	// Absent delta fields leave stored values untouched
	assert.Equal(t, "bakery", *merged.BusinessType)
	assert.Equal(t, "no dancing reels", *merged.ContentPreferences)
	assert.Equal(t, "2026-08-29", *merged.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_ConflictResolvesLastWriteWins(t *testing.T) {
	store, mock := newMockedStore(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(
		sqlmock.NewRows(profileColumns).AddRow(
			nil, "bakery", nil, nil,
			nil, nil, nil,
			nil, nil, nil, "2026-08-15",
		),
	)
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	delta := models.ProfileDelta{BrandVoice: models.StringPtr("warm and playful")}
	// Caller read the profile before someone else wrote: warn, write anyway
	merged, err := store.Merge(context.Background(), "p1", delta, "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, "warm and playful", *merged.BrandVoice)
	assert.Equal(t, "2026-08-29", *merged.LastUpdated)
}

func TestMerge_WriteFailure(t *testing.T) {
	store, mock := newMockedStore(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT business_name").WillReturnRows(sqlmock.NewRows(profileColumns))
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := store.Merge(context.Background(), "p1", models.ProfileDelta{
		BusinessName: models.StringPtr("Bean There"),
	}, "")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeProfileWriteFailed, stdErr.Code)
}

func TestMerge_InvalidatesCache(t *testing.T) {
	cache, cacheMock := redismock.NewClientMock()
	store, mock := newMockedStore(t, cache)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT business_name").WillReturnRows(sqlmock.NewRows(profileColumns))
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	cacheMock.ExpectDel("profile:p1").SetVal(1)

	_, err := store.Merge(context.Background(), "p1", models.ProfileDelta{
		BusinessName: models.StringPtr("Bean There"),
	}, "")
	require.NoError(t, err)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestReplace_OverwritesWholesale(t *testing.T) {
	store, mock := newMockedStore(t, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	replaced, err := store.Replace(context.Background(), "p1", models.BusinessProfile{
		BusinessName: models.StringPtr("New Owners Cafe"),
		BusinessType: models.StringPtr("coffee_shop"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Owners Cafe", *replaced.BusinessName)
	assert.Equal(t, "2026-08-29", *replaced.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead_CorruptCacheEntryFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set("profile:p1", "{not json"))

	store, mock := newMockedStore(t, cache)
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(
		sqlmock.NewRows(profileColumns).AddRow(
			"Bean There", "coffee_shop", nil, nil,
			nil, nil, nil,
			nil, nil, nil, nil,
		),
	)

	p, err := store.Read(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Bean There", *p.BusinessName)
}
