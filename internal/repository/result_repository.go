package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Volker37318/day-results-api/internal/models"
)

// ResultRepository is the only component that talks to the record store. It
// translates canonical records to and from rows; no business logic.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs the repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert persists one canonical record as a single atomic write. The full
// record is serialized into the payload column; the promoted columns exist
// for filtering and ordering.
func (r *ResultRepository) Insert(ctx context.Context, record *models.ExerciseResult) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal result payload: %w", err)
	}
	query := `INSERT INTO exercise_results (id, class_code, participant_id, lesson_id, exercise_codes, duration_ms, score, completed_at, received_at, schema_version, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ClassCode,
		record.ParticipantID,
		record.LessonID,
		pq.Array([]string(record.ExerciseCodes)),
		record.DurationMs,
		record.Score,
		record.CompletedAt,
		record.ReceivedAt,
		record.SchemaVersion,
		payload,
	); err != nil {
		return fmt.Errorf("insert exercise result: %w", err)
	}
	return nil
}

// Recent fetches the newest rows by received_at, capped at limit so the
// in-process aggregation stays bounded.
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]models.StoredResult, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	query := fmt.Sprintf(`SELECT class_code, received_at, payload FROM exercise_results ORDER BY received_at DESC LIMIT %d`, limit)
	var rows []models.StoredResult
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	return rows, nil
}
