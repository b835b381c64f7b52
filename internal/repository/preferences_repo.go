package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// PreferencesRepository guarda las preferencias de matching de cada usuario.
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (domain.MatchingPreferences, error)
	Save(ctx context.Context, userID string, prefs domain.MatchingPreferences) error
}

type PgPreferencesRepository struct {
	pool *pgxpool.Pool
}

func NewPgPreferencesRepository(pool *pgxpool.Pool) *PgPreferencesRepository {
	return &PgPreferencesRepository{pool: pool}
}

func (r *PgPreferencesRepository) Get(ctx context.Context, userID string) (domain.MatchingPreferences, error) {
	var raw []byte
	var updatedAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT preferences, updated_at FROM matching_preferences WHERE user_id = $1`, userID,
	).Scan(&raw, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MatchingPreferences{}, fmt.Errorf("preferences %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.MatchingPreferences{}, err
	}
	var prefs domain.MatchingPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return domain.MatchingPreferences{}, fmt.Errorf("decode preferences %s: %w", userID, err)
	}
	prefs.UpdatedAt = &updatedAt
	return prefs, nil
}

func (r *PgPreferencesRepository) Save(ctx context.Context, userID string, prefs domain.MatchingPreferences) error {
	prefs.UpdatedAt = nil
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	const query = `
		INSERT INTO matching_preferences (user_id, preferences, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET preferences = EXCLUDED.preferences, updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query, userID, raw)
	return err
}
