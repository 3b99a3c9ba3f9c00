package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Volker37318/day-results-api/internal/models"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

type inserterStub struct {
	records []*models.ExerciseResult
	err     error
}

func (s *inserterStub) Insert(ctx context.Context, record *models.ExerciseResult) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

type dedupeStub struct {
	seen        bool
	rememberErr error
	forgotten   []string
	remembered  []string
}

func (s *dedupeStub) Remember(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	if s.rememberErr != nil {
		return false, s.rememberErr
	}
	s.remembered = append(s.remembered, fingerprint)
	return s.seen, nil
}

func (s *dedupeStub) Forget(ctx context.Context, fingerprint string) error {
	s.forgotten = append(s.forgotten, fingerprint)
	return nil
}

func submissionBody() map[string]interface{} {
	return map[string]interface{}{
		"lessonId":      "lesson-7",
		"classCode":     "5b",
		"participantId": "kid-3",
		"duration_ms":   float64(5000),
		"dayResults": map[string]interface{}{
			"A": map[string]interface{}{"answers": []interface{}{"x"}},
		},
	}
}

func TestIngestSubmitPersistsRecord(t *testing.T) {
	repo := &inserterStub{}
	svc := NewIngestService(repo, nil, nil, nil, IngestServiceConfig{})

	record, err := svc.Submit(context.Background(), submissionBody())
	require.NoError(t, err)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "5b", record.ClassCode)
	assert.Equal(t, "lesson-7", record.LessonID)
	assert.Equal(t, []string{"A"}, []string(record.ExerciseCodes))
	assert.Equal(t, models.SchemaVersion, record.SchemaVersion)
	assert.False(t, record.ReceivedAt.IsZero())
}

func TestIngestSubmitRejectsWithoutStoreWrite(t *testing.T) {
	repo := &inserterStub{}
	svc := NewIngestService(repo, nil, nil, nil, IngestServiceConfig{})

	_, err := svc.Submit(context.Background(), map[string]interface{}{
		"dayResults": map[string]interface{}{"A": 1},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingLessonID.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestIngestSubmitStoreErrorWrapped(t *testing.T) {
	repo := &inserterStub{err: assert.AnError}
	svc := NewIngestService(repo, nil, nil, nil, IngestServiceConfig{})

	_, err := svc.Submit(context.Background(), submissionBody())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStore.Code, appErrors.FromError(err).Code)
}

func TestIngestSubmitSuppressesDuplicates(t *testing.T) {
	repo := &inserterStub{}
	dedupe := &dedupeStub{seen: true}
	svc := NewIngestService(repo, dedupe, nil, nil, IngestServiceConfig{DedupeEnabled: true})

	_, err := svc.Submit(context.Background(), submissionBody())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestIngestSubmitDedupeFailsOpen(t *testing.T) {
	repo := &inserterStub{}
	dedupe := &dedupeStub{rememberErr: assert.AnError}
	svc := NewIngestService(repo, dedupe, nil, nil, IngestServiceConfig{DedupeEnabled: true})

	_, err := svc.Submit(context.Background(), submissionBody())
	require.NoError(t, err)
	assert.Len(t, repo.records, 1)
}

func TestIngestSubmitRollsBackFingerprintOnStoreError(t *testing.T) {
	repo := &inserterStub{err: assert.AnError}
	dedupe := &dedupeStub{}
	svc := NewIngestService(repo, dedupe, nil, nil, IngestServiceConfig{DedupeEnabled: true})

	_, err := svc.Submit(context.Background(), submissionBody())
	require.Error(t, err)
	require.Len(t, dedupe.remembered, 1)
	assert.Equal(t, dedupe.remembered, dedupe.forgotten)
}

func TestIngestSubmitRequireIdentity(t *testing.T) {
	repo := &inserterStub{}
	svc := NewIngestService(repo, nil, nil, nil, IngestServiceConfig{RequireIdentity: true})

	body := submissionBody()
	delete(body, "classCode")
	_, err := svc.Submit(context.Background(), body)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingIdentity.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}
