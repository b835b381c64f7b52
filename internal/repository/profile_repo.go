package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// ProfileRepository persiste un TraitProfile por usuario con control de version optimista.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (domain.TraitProfile, error)
	// Save escribe el perfil si la version almacenada coincide con profile.Version
	// (0 = todavia no existe) y devuelve la nueva version.
	Save(ctx context.Context, profile domain.TraitProfile) (int64, error)
	// ListCandidates devuelve los perfiles mas cercanos a near en el espacio de rasgos.
	ListCandidates(ctx context.Context, excludeUserID string, near []float32, limit int) ([]domain.TraitProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.TraitProfile, error) {
	const query = `
		SELECT profile, version
		FROM trait_profiles
		WHERE user_id = $1
	`
	var raw []byte
	var version int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TraitProfile{}, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.TraitProfile{}, err
	}
	return decodeProfile(raw, version)
}

func (r *PgProfileRepository) Save(ctx context.Context, profile domain.TraitProfile) (int64, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return 0, fmt.Errorf("encode profile: %w", err)
	}
	vec := pgvector.NewVector(profile.TraitVector())

	if profile.Version == 0 {
		const insert = `
			INSERT INTO trait_profiles (user_id, profile, trait_vector, completion_percentage, personality_updates, last_comprehensive_update, version, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, now())
			ON CONFLICT (user_id) DO NOTHING
		`
		tag, err := r.pool.Exec(ctx, insert,
			profile.UserID,
			raw,
			vec,
			profile.CompletionPercentage,
			profile.PersonalityUpdates,
			profile.LastComprehensiveUpdate,
		)
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("insert profile %s: %w", profile.UserID, domain.ErrConcurrentSynthesis)
		}
		return 1, nil
	}

	const update = `
		UPDATE trait_profiles
		SET profile = $2,
			trait_vector = $3,
			completion_percentage = $4,
			personality_updates = $5,
			last_comprehensive_update = $6,
			version = version + 1,
			updated_at = now()
		WHERE user_id = $1 AND version = $7
	`
	tag, err := r.pool.Exec(ctx, update,
		profile.UserID,
		raw,
		vec,
		profile.CompletionPercentage,
		profile.PersonalityUpdates,
		profile.LastComprehensiveUpdate,
		profile.Version,
	)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("update profile %s at version %d: %w", profile.UserID, profile.Version, domain.ErrConcurrentSynthesis)
	}
	return profile.Version + 1, nil
}

func (r *PgProfileRepository) ListCandidates(ctx context.Context, excludeUserID string, near []float32, limit int) ([]domain.TraitProfile, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT profile, version
		FROM trait_profiles
		WHERE user_id <> $1
		ORDER BY trait_vector <-> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, excludeUserID, pgvector.NewVector(near), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TraitProfile
	for rows.Next() {
		var raw []byte
		var version int64
		if err := rows.Scan(&raw, &version); err != nil {
			return nil, err
		}
		p, err := decodeProfile(raw, version)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeProfile(raw []byte, version int64) (domain.TraitProfile, error) {
	var p domain.TraitProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.TraitProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	if p.Interests == nil {
		p.Interests = []domain.Interest{}
	}
	if p.Insights == nil {
		p.Insights = []domain.Insight{}
	}
	p.Version = version
	return p, nil
}
