package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// SchemaVersion tags every record written by this revision of the
// normalizer so future readers can tell payload generations apart.
const SchemaVersion = 2

// Sentinel values recorded when a submission arrives without identifying
// data. Kept for compatibility with historic rows; strict deployments reject
// such submissions instead (see config.IngestConfig.RequireIdentity).
const (
	UndefinedClass       = "UNDEFINED_CLASS"
	UndefinedParticipant = "UNDEFINED_PARTICIPANT"
)

// exerciseCodes is the closed set of per-lesson exercise identifiers.
var exerciseCodes = map[string]struct{}{
	"A": {},
	"B": {},
	"C": {},
	"D": {},
	"E": {},
}

// IsExerciseCode reports whether key names a known exercise.
func IsExerciseCode(key string) bool {
	_, ok := exerciseCodes[key]
	return ok
}

// ExerciseResult is the canonical record persisted for one lesson
// completion. It is created whole by the normalizer and never mutated after
// insert. JSON tags follow the client vocabulary (camelCase) because the
// serialized record is stored verbatim as the row payload.
type ExerciseResult struct {
	ID            string                 `db:"id" json:"id"`
	ClassCode     string                 `db:"class_code" json:"classCode"`
	ParticipantID string                 `db:"participant_id" json:"participantId"`
	LessonID      string                 `db:"lesson_id" json:"lessonId"`
	ExerciseCodes pq.StringArray         `db:"exercise_codes" json:"exerciseCodes"`
	DayResults    map[string]interface{} `db:"-" json:"dayResults"`
	DurationMs    *int64                 `db:"duration_ms" json:"durationMs"`
	Score         *float64               `db:"score" json:"score"`
	CompletedAt   time.Time              `db:"completed_at" json:"completedAt"`
	ReceivedAt    time.Time              `db:"received_at" json:"receivedAt"`
	SchemaVersion int                    `db:"schema_version" json:"schemaVersion"`
}

// StoredResult is the read-side projection fetched for aggregation. The
// promoted columns are nullable because rows written by earlier payload
// generations may lack them.
type StoredResult struct {
	ClassCode  *string        `db:"class_code"`
	ReceivedAt *time.Time     `db:"received_at"`
	Payload    types.JSONText `db:"payload"`
}

// ClassSummary is the per-cohort aggregate served to the dashboard. Derived
// on every read, never persisted.
type ClassSummary struct {
	ClassCode string    `json:"class_code"`
	LastSeen  time.Time `json:"last_seen"`
	Count     int       `json:"count"`
}

// SessionRow is one stored submission reduced for the sessions listing.
type SessionRow struct {
	ReceivedAt time.Time      `json:"received_at"`
	Payload    types.JSONText `json:"payload"`
}
