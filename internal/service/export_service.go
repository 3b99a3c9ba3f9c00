package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Volker37318/day-results-api/internal/models"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
	"github.com/Volker37318/day-results-api/pkg/export"
)

type classSummarizer interface {
	Classes(ctx context.Context) ([]models.ClassSummary, error)
}

// ExportRequest selects the rendering format.
type ExportRequest struct {
	Format string `validate:"required,oneof=csv pdf"`
}

// ExportFile is a rendered summary document.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the per-class summary table as a downloadable file.
type ExportService struct {
	summaries classSummarizer
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	now       func() time.Time
}

// NewExportService constructs the service.
func NewExportService(summaries classSummarizer, validate *validator.Validate) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		summaries: summaries,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		now:       time.Now,
	}
}

// Render produces the class summary table in the requested format.
func (s *ExportService) Render(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid export request")
	}

	summaries, err := s.summaries.Classes(ctx)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Class summaries",
		Columns: []string{"class_code", "last_seen", "count"},
		Rows:    make([][]string, 0, len(summaries)),
	}
	for _, summary := range summaries {
		table.Rows = append(table.Rows, []string{
			summary.ClassCode,
			summary.LastSeen.UTC().Format(time.RFC3339),
			strconv.Itoa(summary.Count),
		})
	}

	stamp := s.now().UTC().Format("20060102-150405")
	switch req.Format {
	case "pdf":
		content, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("class-summaries-%s.pdf", stamp),
		}, nil
	default:
		content, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("class-summaries-%s.csv", stamp),
		}, nil
	}
}
