package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Volker37318/day-results-api/internal/models"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

type resultFetcher interface {
	Recent(ctx context.Context, limit int) ([]models.StoredResult, error)
}

// QueryRequest describes the read-side selector.
type QueryRequest struct {
	Mode  string `validate:"required,oneof=classes sessions"`
	Class string `validate:"required_if=Mode sessions"`
}

// SummaryService computes the dashboard views over the most recent stored
// rows. Aggregates are recomputed on every call and never cached.
type SummaryService struct {
	repo      resultFetcher
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	rowLimit  int
}

// NewSummaryService constructs the service.
func NewSummaryService(repo resultFetcher, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, rowLimit int) *SummaryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rowLimit <= 0 {
		rowLimit = 1000
	}
	return &SummaryService{
		repo:      repo,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		rowLimit:  rowLimit,
	}
}

// ValidateQuery checks the selector and maps violations onto the stable
// reason codes.
func (s *SummaryService) ValidateQuery(req QueryRequest) error {
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				switch fe.Field() {
				case "Mode":
					return appErrors.ErrInvalidMode
				case "Class":
					return appErrors.ErrMissingClass
				}
			}
		}
		return appErrors.Clone(appErrors.ErrValidation, "invalid query")
	}
	return nil
}

// Classes groups the fetched window by class code and reports per-class
// count and most recent arrival, newest class first. Rows without a class or
// arrival timestamp are skipped rather than failing the read: the store
// holds rows from several payload generations.
func (s *SummaryService) Classes(ctx context.Context) ([]models.ClassSummary, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*models.ClassSummary)
	skipped := 0
	for _, row := range rows {
		if row.ClassCode == nil || *row.ClassCode == "" || row.ReceivedAt == nil {
			skipped++
			continue
		}
		summary, ok := groups[*row.ClassCode]
		if !ok {
			summary = &models.ClassSummary{ClassCode: *row.ClassCode, LastSeen: *row.ReceivedAt}
			groups[*row.ClassCode] = summary
		}
		summary.Count++
		if row.ReceivedAt.After(summary.LastSeen) {
			summary.LastSeen = *row.ReceivedAt
		}
	}
	if skipped > 0 {
		s.logger.Debug("rows skipped during aggregation", zap.Int("skipped", skipped))
	}

	summaries := make([]models.ClassSummary, 0, len(groups))
	for _, summary := range groups {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LastSeen.Equal(summaries[j].LastSeen) {
			return summaries[i].ClassCode < summaries[j].ClassCode
		}
		return summaries[i].LastSeen.After(summaries[j].LastSeen)
	})
	return summaries, nil
}

// Sessions lists the stored submissions for one class, newest first
// (preserving the store's descending order), each reduced to its arrival
// time and payload.
func (s *SummaryService) Sessions(ctx context.Context, class string) ([]models.SessionRow, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.SessionRow, 0)
	for _, row := range rows {
		if row.ClassCode == nil || *row.ClassCode != class || row.ReceivedAt == nil {
			continue
		}
		sessions = append(sessions, models.SessionRow{
			ReceivedAt: *row.ReceivedAt,
			Payload:    row.Payload,
		})
	}
	return sessions, nil
}

func (s *SummaryService) fetch(ctx context.Context) ([]models.StoredResult, error) {
	start := time.Now()
	rows, err := s.repo.Recent(ctx, s.rowLimit)
	s.metrics.ObserveStoreOperation("recent", time.Since(start))
	if err != nil {
		s.logger.Error("recent results query failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, appErrors.ErrStore.Message)
	}
	return rows, nil
}
