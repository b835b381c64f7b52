package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// SignalRepository guarda el ultimo snapshot normalizado de cada conector.
type SignalRepository interface {
	ListConnected(ctx context.Context, userID string) (map[string]domain.ExternalSignal, error)
	Upsert(ctx context.Context, userID string, signal domain.ExternalSignal) error
	Disconnect(ctx context.Context, userID, connector string) error
}

type PgSignalRepository struct {
	pool *pgxpool.Pool
}

func NewPgSignalRepository(pool *pgxpool.Pool) *PgSignalRepository {
	return &PgSignalRepository{pool: pool}
}

// signalPayload es la parte del snapshot que vive en la columna JSONB.
type signalPayload struct {
	Sections map[string][]domain.SignalItem `json:"sections,omitempty"`
	Tags     []string                       `json:"tags,omitempty"`
}

func (r *PgSignalRepository) ListConnected(ctx context.Context, userID string) (map[string]domain.ExternalSignal, error) {
	const query = `
		SELECT connector, payload, last_sync
		FROM external_signals
		WHERE user_id = $1 AND connected
		ORDER BY connector
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.ExternalSignal)
	for rows.Next() {
		var sig domain.ExternalSignal
		var raw []byte
		if err := rows.Scan(&sig.Connector, &raw, &sig.LastSync); err != nil {
			return nil, err
		}
		var payload signalPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode signal %s: %w", sig.Connector, err)
		}
		sig.Sections = payload.Sections
		sig.Tags = payload.Tags
		out[sig.Connector] = sig
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgSignalRepository) Upsert(ctx context.Context, userID string, signal domain.ExternalSignal) error {
	payload, err := json.Marshal(signalPayload{Sections: signal.Sections, Tags: signal.Tags})
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	const query = `
		INSERT INTO external_signals (user_id, connector, payload, connected, last_sync)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (user_id, connector)
		DO UPDATE SET payload = EXCLUDED.payload, connected = TRUE, last_sync = EXCLUDED.last_sync
	`
	_, err = r.pool.Exec(ctx, query, userID, signal.Connector, payload, signal.LastSync)
	return err
}

func (r *PgSignalRepository) Disconnect(ctx context.Context, userID, connector string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE external_signals SET connected = FALSE WHERE user_id = $1 AND connector = $2 AND connected`,
		userID, connector,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("connector %s: %w", connector, domain.ErrNotFound)
	}
	return nil
}
