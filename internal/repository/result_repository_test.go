package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Volker37318/day-results-api/internal/models"
)

func newResultMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleRecord() *models.ExerciseResult {
	duration := int64(5000)
	score := 87.5
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &models.ExerciseResult{
		ID:            "rec-1",
		ClassCode:     "5b",
		ParticipantID: "kid-3",
		LessonID:      "lesson-7",
		ExerciseCodes: []string{"A", "C"},
		DayResults:    map[string]interface{}{"A": "done", "C": "done"},
		DurationMs:    &duration,
		Score:         &score,
		CompletedAt:   now,
		ReceivedAt:    now,
		SchemaVersion: models.SchemaVersion,
	}
}

func TestResultRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("INSERT INTO exercise_results").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryInsertStoreFailure(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("INSERT INTO exercise_results").
		WillReturnError(assert.AnError)

	err := repo.Insert(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryRecent(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"class_code", "received_at", "payload"}).
		AddRow("5b", now, []byte(`{"id":"rec-1"}`)).
		AddRow("6a", now.Add(-time.Minute), []byte(`{"id":"rec-2"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT class_code, received_at, payload FROM exercise_results ORDER BY received_at DESC LIMIT 250")).
		WillReturnRows(rows)

	fetched, err := repo.Recent(context.Background(), 250)
	require.NoError(t, err)
	require.Len(t, fetched, 2)
	assert.Equal(t, "5b", *fetched[0].ClassCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryRecentClampsLimit(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT class_code, received_at, payload FROM exercise_results ORDER BY received_at DESC LIMIT 1000")).
		WillReturnRows(sqlmock.NewRows([]string{"class_code", "received_at", "payload"}))

	_, err := repo.Recent(context.Background(), -1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
