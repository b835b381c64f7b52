package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// ResponseRepository persiste el log append-only de respuestas.
type ResponseRepository interface {
	Append(ctx context.Context, records []domain.ResponseRecord) error
	ListByUserID(ctx context.Context, userID string) ([]domain.ResponseRecord, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type PgResponseRepository struct {
	pool *pgxpool.Pool
}

func NewPgResponseRepository(pool *pgxpool.Pool) *PgResponseRepository {
	return &PgResponseRepository{pool: pool}
}

// Append inserta todas las respuestas en una sola transaccion: o entran todas o ninguna.
func (r *PgResponseRepository) Append(ctx context.Context, records []domain.ResponseRecord) error {
	if len(records) == 0 {
		return nil
	}
	const query = `
		INSERT INTO response_records (id, user_id, question_id, question_text, answer_text, category, confidence, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(query,
				rec.ID,
				rec.UserID,
				rec.QuestionID,
				rec.QuestionText,
				rec.AnswerText,
				string(rec.Category),
				rec.Confidence,
				rec.AnsweredAt,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range records {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert response %d: %w", i, err)
			}
		}
		return br.Close()
	})
}

func (r *PgResponseRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ResponseRecord, error) {
	const query = `
		SELECT id, user_id, question_id, question_text, answer_text, category, confidence, answered_at
		FROM response_records
		WHERE user_id = $1
		ORDER BY answered_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ResponseRecord
	for rows.Next() {
		var rec domain.ResponseRecord
		var category string
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.QuestionID,
			&rec.QuestionText,
			&rec.AnswerText,
			&category,
			&rec.Confidence,
			&rec.AnsweredAt,
		); err != nil {
			return nil, err
		}
		rec.Category = domain.Category(category)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgResponseRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM response_records WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
