// internal/workers/profile/profile-merge/handler_test.go
package profilemerge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/profile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileColumns = []string{
	"business_name", "business_type", "country", "location_detail",
	"target_audience", "brand_voice", "content_preferences",
	"posting_frequency", "platforms", "additional_notes", "to_char",
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := profile.NewStore(db, nil, logger.NewTestLogger(t))
	store.SetClock(func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	})

	return NewHandler(LoadConfig(), store, logger.NewTestLogger(t)), mock
}

func storedBakeryRow() *sqlmock.Rows {
	return sqlmock.NewRows(profileColumns).AddRow(
		"Crumb & Co", "bakery", "US", nil,
		nil, nil, nil,
		nil, nil, nil, "2026-08-01",
	)
}

func TestExecute_ReadExistingAwaitsConfirmation(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(storedBakeryRow())

	output, err := h.execute(context.Background(), &Input{ProfileID: "p1", Action: ActionRead})
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingConfirmation, output.State)
	assert.False(t, output.IsNew)
	assert.Equal(t, "Crumb & Co", *output.Profile.BusinessName)
}

func TestExecute_ReadMissingIsNewAndConfirmed(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery("SELECT business_name").WithArgs("fresh").WillReturnRows(
		sqlmock.NewRows(profileColumns),
	)

	output, err := h.execute(context.Background(), &Input{ProfileID: "fresh"})
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, output.State)
	assert.True(t, output.IsNew)
	assert.True(t, output.Profile.IsEmpty())
}

func TestExecute_Confirm(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(storedBakeryRow())

	output, err := h.execute(context.Background(), &Input{ProfileID: "p1", Action: ActionConfirm})
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, output.State)
}

func TestExecute_MergeAppliesDelta(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(storedBakeryRow())
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	output, err := h.execute(context.Background(), &Input{
		ProfileID: "p1",
		Action:    ActionMerge,
		Delta:     json.RawMessage(`{"content_preferences": "no dancing reels"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, output.State)
	assert.Equal(t, "no dancing reels", *output.Profile.ContentPreferences)
	assert.Equal(t, "bakery", *output.Profile.BusinessType)
	assert.Equal(t, "2026-08-29", *output.Profile.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_MergeEmptyDeltaBehavesLikeConfirm(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery("SELECT business_name").WithArgs("p1").WillReturnRows(storedBakeryRow())

	output, err := h.execute(context.Background(), &Input{
		ProfileID: "p1",
		Action:    ActionMerge,
		Delta:     json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, output.State)
	assert.Equal(t, "bakery", *output.Profile.BusinessType)
}

func TestExecute_MergeRejectsUnknownField(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.execute(context.Background(), &Input{
		ProfileID: "p1",
		Action:    ActionMerge,
		Delta:     json.RawMessage(`{"business_nmae": "typo"}`),
	})
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeInvalidProfileDelta, stdErr.Code)
}

func TestExecute_MergeRequiresDelta(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.execute(context.Background(), &Input{ProfileID: "p1", Action: ActionMerge})
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeInvalidProfileDelta, stdErr.Code)
}

func TestExecute_ReplaceStartsFromBlank(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO business_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	output, err := h.execute(context.Background(), &Input{
		ProfileID: "p1",
		Action:    ActionReplace,
		Delta:     json.RawMessage(`{"business_name": "New Owners Cafe", "business_type": "coffee_shop"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, StateReplaced, output.State)
	assert.Equal(t, "New Owners Cafe", *output.Profile.BusinessName)
	// Replace never carries stored fields forward
	assert.Nil(t, output.Profile.Country)
}

func TestExecute_RequiresProfileID(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.execute(context.Background(), &Input{Action: ActionRead})
	require.Error(t, err)
}

func TestExecute_UnknownAction(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.execute(context.Background(), &Input{ProfileID: "p1", Action: "obliterate"})
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeInvalidProfileDelta, stdErr.Code)
}
