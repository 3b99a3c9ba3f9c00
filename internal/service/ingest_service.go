package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Volker37318/day-results-api/internal/ingest"
	"github.com/Volker37318/day-results-api/internal/models"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

type resultInserter interface {
	Insert(ctx context.Context, record *models.ExerciseResult) error
}

type dedupeStore interface {
	Remember(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, fingerprint string) error
}

// IngestServiceConfig tunes the write path.
type IngestServiceConfig struct {
	RequireIdentity bool
	DedupeEnabled   bool
	DedupeTTL       time.Duration
}

// IngestService runs the full ingestion pipeline: validate, normalize,
// persist. Each call is independent; the service holds no per-request state.
type IngestService struct {
	repo       resultInserter
	dedupe     dedupeStore
	normalizer *ingest.Normalizer
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        IngestServiceConfig
}

// NewIngestService constructs the service. dedupe may be nil when duplicate
// suppression is disabled.
func NewIngestService(repo resultInserter, dedupe dedupeStore, metrics *MetricsService, logger *zap.Logger, cfg IngestServiceConfig) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 10 * time.Minute
	}
	return &IngestService{
		repo:       repo,
		dedupe:     dedupe,
		normalizer: ingest.NewNormalizer(cfg.RequireIdentity),
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// Normalizer exposes the pipeline's normalizer. Test hook for clock and id
// injection.
func (s *IngestService) Normalizer() *ingest.Normalizer {
	return s.normalizer
}

// Submit validates and persists one submission, returning the canonical
// record that was written. All failures come back as *appErrors.Error so the
// handler can apply the deployment's failure policy.
func (s *IngestService) Submit(ctx context.Context, body interface{}) (*models.ExerciseResult, error) {
	validated, vErr := ingest.Validate(body)
	if vErr != nil {
		s.metrics.RecordRejected(vErr.Code)
		return nil, vErr
	}

	var fingerprint string
	if s.cfg.DedupeEnabled && s.dedupe != nil {
		fingerprint = ingest.Fingerprint(validated)
		seen, err := s.dedupe.Remember(ctx, fingerprint, s.cfg.DedupeTTL)
		if err != nil {
			// Fail open: a dedupe outage must never block ingestion.
			s.logger.Warn("dedupe check failed", zap.Error(err))
			fingerprint = ""
		} else if seen {
			s.metrics.RecordDedupeHit()
			s.metrics.RecordRejected(appErrors.ErrDuplicate.Code)
			return nil, appErrors.ErrDuplicate
		}
	}

	record, err := s.normalizer.Normalize(validated)
	if err != nil {
		appErr := appErrors.FromError(err)
		s.metrics.RecordRejected(appErr.Code)
		return nil, appErr
	}

	start := time.Now()
	err = s.repo.Insert(ctx, record)
	s.metrics.ObserveStoreOperation("insert", time.Since(start))
	if err != nil {
		if fingerprint != "" {
			// Let the client retry a submission the store never took.
			if forgetErr := s.dedupe.Forget(ctx, fingerprint); forgetErr != nil {
				s.logger.Warn("dedupe rollback failed", zap.Error(forgetErr))
			}
		}
		s.logger.Error("insert failed",
			zap.String("record_id", record.ID),
			zap.String("class_code", record.ClassCode),
			zap.String("lesson_id", record.LessonID),
			zap.Error(err),
		)
		s.metrics.RecordRejected(appErrors.ErrStore.Code)
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, appErrors.ErrStore.Message)
	}

	s.metrics.RecordAccepted()
	s.logger.Info("day result stored",
		zap.String("record_id", record.ID),
		zap.String("class_code", record.ClassCode),
		zap.String("lesson_id", record.LessonID),
		zap.Strings("exercise_codes", record.ExerciseCodes),
	)
	return record, nil
}
