package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Volker37318/day-results-api/internal/models"
	"github.com/Volker37318/day-results-api/internal/service"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
	"github.com/Volker37318/day-results-api/pkg/response"
)

type ingestService interface {
	Submit(ctx context.Context, body interface{}) (*models.ExerciseResult, error)
}

type summaryService interface {
	ValidateQuery(req service.QueryRequest) error
	Classes(ctx context.Context) ([]models.ClassSummary, error)
	Sessions(ctx context.Context, class string) ([]models.SessionRow, error)
}

type exportService interface {
	Render(ctx context.Context, req service.ExportRequest) (*service.ExportFile, error)
}

// ResultHandlerConfig fixes the handler's deployment policy.
type ResultHandlerConfig struct {
	MaxBodyBytes int64
	// StrictErrors selects the failure policy for POST: 4xx/5xx when true,
	// always 200 with ok:false when false.
	StrictErrors bool
}

// ResultHandler wires the day-results pipeline to HTTP endpoints.
type ResultHandler struct {
	ingest    ingestService
	summaries summaryService
	exports   exportService
	cfg       ResultHandlerConfig
}

// NewResultHandler constructs the handler. exports may be nil when the
// export endpoint is disabled.
func NewResultHandler(ingest ingestService, summaries summaryService, exports exportService, cfg ResultHandlerConfig) *ResultHandler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &ResultHandler{ingest: ingest, summaries: summaries, exports: exports, cfg: cfg}
}

// Submit godoc
// @Summary Ingest a day-results submission
// @Tags DayResults
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /day-results [post]
func (h *ResultHandler) Submit(c *gin.Context) {
	if h.ingest == nil {
		response.Fail(c, appErrors.ErrInternal)
		return
	}

	body, err := h.decodeBody(c)
	if err != nil {
		response.FailWithPolicy(c, err, h.cfg.StrictErrors)
		return
	}

	if _, err := h.ingest.Submit(c.Request.Context(), body); err != nil {
		response.FailWithPolicy(c, err, h.cfg.StrictErrors)
		return
	}
	response.Ok(c)
}

// Query godoc
// @Summary Aggregated day-results views
// @Tags DayResults
// @Produce json
// @Param mode query string true "classes or sessions"
// @Param class query string false "Class code (sessions mode)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /day-results [get]
func (h *ResultHandler) Query(c *gin.Context) {
	if h.summaries == nil {
		response.Fail(c, appErrors.ErrInternal)
		return
	}

	req := service.QueryRequest{
		Mode:  strings.TrimSpace(c.Query("mode")),
		Class: strings.TrimSpace(c.Query("class")),
	}
	if err := h.summaries.ValidateQuery(req); err != nil {
		response.Fail(c, err)
		return
	}

	switch req.Mode {
	case "classes":
		summaries, err := h.summaries.Classes(c.Request.Context())
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.Ok(c, gin.H{"classes": summaries})
	case "sessions":
		rows, err := h.summaries.Sessions(c.Request.Context(), req.Class)
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.Ok(c, gin.H{"rows": rows})
	default:
		response.Fail(c, appErrors.ErrInvalidMode)
	}
}

// Export godoc
// @Summary Download class summaries as CSV or PDF
// @Tags DayResults
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /day-results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Fail(c, appErrors.ErrNotFound)
		return
	}

	req := service.ExportRequest{Format: strings.TrimSpace(c.DefaultQuery("format", "csv"))}
	file, err := h.exports.Render(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Live godoc
// @Summary Liveness probe
// @Tags Ops
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *ResultHandler) Live(c *gin.Context) {
	c.String(http.StatusOK, "day-results-api running")
}

// decodeBody parses the request body into untyped JSON, honoring the size
// ceiling. Unlike gin's binding helpers this keeps the body fully untyped so
// validation owns every shape decision.
func (h *ResultHandler) decodeBody(c *gin.Context) (interface{}, *appErrors.Error) {
	reader := http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxBodyBytes)
	defer reader.Close()

	var body interface{}
	if err := json.NewDecoder(reader).Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, appErrors.ErrBodyTooLarge
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidBody, "body is not valid JSON")
	}
	return body, nil
}
