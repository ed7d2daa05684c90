// Package profile persists the durable business profile. Postgres is the
// source of truth; Redis fronts reads and is invalidated on every write.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	commonerrors "github.com/sorabhv/social-media-strategist/internal/common/errors"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/models"
)

const (
	cacheKeyPrefix = "profile:"
	cacheTTL       = 10 * time.Minute
)

// Store reads and writes business profiles.
type Store struct {
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
	now    func() time.Time
}

// NewStore creates a Store. cache may be nil; the store then always hits
// Postgres.
func NewStore(db *sql.DB, cache *redis.Client, log logger.Logger) *Store {
	return &Store{
		db:     db,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

const selectProfileQuery = `
	SELECT business_name, business_type, country, location_detail,
	       target_audience, brand_voice, content_preferences,
	       posting_frequency, platforms, additional_notes,
	       to_char(last_updated, 'YYYY-MM-DD')
	FROM business_profiles
	WHERE id = $1`

const upsertProfileQuery = `
	INSERT INTO business_profiles (
		id, business_name, business_type, country, location_detail,
		target_audience, brand_voice, content_preferences,
		posting_frequency, platforms, additional_notes, last_updated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		business_name = EXCLUDED.business_name,
		business_type = EXCLUDED.business_type,
		country = EXCLUDED.country,
		location_detail = EXCLUDED.location_detail,
		target_audience = EXCLUDED.target_audience,
		brand_voice = EXCLUDED.brand_voice,
		content_preferences = EXCLUDED.content_preferences,
		posting_frequency = EXCLUDED.posting_frequency,
		platforms = EXCLUDED.platforms,
		additional_notes = EXCLUDED.additional_notes,
		last_updated = EXCLUDED.last_updated`

// Read returns the stored profile. A missing row yields the all-null
// sentinel, never an error.
func (s *Store) Read(ctx context.Context, id string) (models.BusinessProfile, error) {
	if cached, ok := s.readCache(ctx, id); ok {
		return cached, nil
	}

	p, err := s.readDB(ctx, id)
	if err != nil {
		return models.BusinessProfile{}, err
	}

	s.writeCache(ctx, id, p)
	return p, nil
}

func (s *Store) readDB(ctx context.Context, id string) (models.BusinessProfile, error) {
	var p models.BusinessProfile
	var platforms pq.StringArray

	err := s.db.QueryRowContext(ctx, selectProfileQuery, id).Scan(
		&p.BusinessName, &p.BusinessType, &p.Country, &p.LocationDetail,
		&p.TargetAudience, &p.BrandVoice, &p.ContentPreferences,
		&p.PostingFrequency, &platforms, &p.AdditionalNotes, &p.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return models.BusinessProfile{}, nil
	}
	if err != nil {
		return models.BusinessProfile{}, commonerrors.NewProfileReadFailedError(err)
	}

	p.Platforms = []string(platforms)
	return p, nil
}

// Merge applies a field-level delta and stamps LastUpdated with today's
// date. Absent delta fields never null out stored values, so merging the
// same delta twice is a no-op. expectedLastUpdated, when non-empty, is
// compared against the stored stamp: a mismatch means someone wrote in
// between, which resolves last-write-wins with a conflict warning.
func (s *Store) Merge(ctx context.Context, id string, delta models.ProfileDelta, expectedLastUpdated string) (models.BusinessProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.BusinessProfile{}, commonerrors.NewProfileWriteFailedError(err)
	}
	defer tx.Rollback()

	current, err := s.readTx(ctx, tx, id)
	if err != nil {
		return models.BusinessProfile{}, err
	}

	if expectedLastUpdated != "" && current.LastUpdated != nil && *current.LastUpdated != expectedLastUpdated {
		conflict := commonerrors.NewProfileMergeConflictError(expectedLastUpdated, *current.LastUpdated)
		s.logger.Warn("Profile merge conflict, resolving last-write-wins", map[string]interface{}{
			"profileId": id,
			"expected":  expectedLastUpdated,
			"stored":    *current.LastUpdated,
			"errorCode": string(conflict.Code),
		})
	}

	merged := delta.Apply(current)
	stamp := s.now().UTC().Format("2006-01-02")
	merged.LastUpdated = &stamp

	if err := s.writeTx(ctx, tx, id, merged); err != nil {
		return models.BusinessProfile{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.BusinessProfile{}, commonerrors.NewProfileWriteFailedError(err)
	}

	s.invalidateCache(ctx, id)
	return merged, nil
}

// Replace overwrites the stored profile wholesale. Used when the user
// rejects the stored profile as a different business.
func (s *Store) Replace(ctx context.Context, id string, p models.BusinessProfile) (models.BusinessProfile, error) {
	stamp := s.now().UTC().Format("2006-01-02")
	p.LastUpdated = &stamp

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.BusinessProfile{}, commonerrors.NewProfileWriteFailedError(err)
	}
	defer tx.Rollback()

	if err := s.writeTx(ctx, tx, id, p); err != nil {
		return models.BusinessProfile{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.BusinessProfile{}, commonerrors.NewProfileWriteFailedError(err)
	}

	s.invalidateCache(ctx, id)
	return p, nil
}

func (s *Store) readTx(ctx context.Context, tx *sql.Tx, id string) (models.BusinessProfile, error) {
	var p models.BusinessProfile
	var platforms pq.StringArray

	err := tx.QueryRowContext(ctx, selectProfileQuery, id).Scan(
		&p.BusinessName, &p.BusinessType, &p.Country, &p.LocationDetail,
		&p.TargetAudience, &p.BrandVoice, &p.ContentPreferences,
		&p.PostingFrequency, &platforms, &p.AdditionalNotes, &p.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return models.BusinessProfile{}, nil
	}
	if err != nil {
		return models.BusinessProfile{}, commonerrors.NewProfileReadFailedError(err)
	}

	p.Platforms = []string(platforms)
	return p, nil
}

func (s *Store) writeTx(ctx context.Context, tx *sql.Tx, id string, p models.BusinessProfile) error {
	var lastUpdated interface{}
	if p.LastUpdated != nil {
		lastUpdated = *p.LastUpdated
	}

	_, err := tx.ExecContext(ctx, upsertProfileQuery,
		id, p.BusinessName, p.BusinessType, p.Country, p.LocationDetail,
		p.TargetAudience, p.BrandVoice, p.ContentPreferences,
		p.PostingFrequency, pq.Array(p.Platforms), p.AdditionalNotes, lastUpdated,
	)
	if err != nil {
		return commonerrors.NewProfileWriteFailedError(err)
	}
	return nil
}

// --- Redis read-through cache ---

func (s *Store) readCache(ctx context.Context, id string) (models.BusinessProfile, bool) {
	if s.cache == nil {
		return models.BusinessProfile{}, false
	}

	data, err := s.cache.Get(ctx, cacheKeyPrefix+id).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Profile cache read failed", map[string]interface{}{"profileId": id, "error": err.Error()})
		}
		return models.BusinessProfile{}, false
	}

	var p models.BusinessProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		s.logger.Warn("Profile cache entry corrupt, dropping", map[string]interface{}{"profileId": id})
		_ = s.cache.Del(ctx, cacheKeyPrefix+id).Err()
		return models.BusinessProfile{}, false
	}
	return p, true
}

func (s *Store) writeCache(ctx context.Context, id string, p models.BusinessProfile) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+id, data, cacheTTL).Err(); err != nil {
		s.logger.Warn("Profile cache write failed", map[string]interface{}{"profileId": id, "error": err.Error()})
	}
}

func (s *Store) invalidateCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyPrefix+id).Err(); err != nil {
		s.logger.Warn("Profile cache invalidation failed", map[string]interface{}{"profileId": id, "error": err.Error()})
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
