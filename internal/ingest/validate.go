package ingest

import (
	"sort"
	"strings"

	"github.com/Volker37318/day-results-api/internal/models"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

// Validated is the checked shape handed to the normalizer. DayResults holds
// only entries under known exercise codes; Codes lists them sorted.
type Validated struct {
	Body       map[string]interface{}
	LessonID   string
	DayResults map[string]interface{}
	Codes      []string
}

// Validate runs the ordered shape checks on a decoded request body and
// short-circuits on the first failure, so a caller always sees the most
// fundamental problem. body is the result of decoding arbitrary JSON.
func Validate(body interface{}) (*Validated, *appErrors.Error) {
	obj, ok := body.(map[string]interface{})
	if !ok || obj == nil {
		return nil, appErrors.ErrInvalidBody
	}

	lessonID, _ := obj["lessonId"].(string)
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return nil, appErrors.ErrMissingLessonID
	}

	rawResults, present := obj["dayResults"]
	dayResults, ok := rawResults.(map[string]interface{})
	if !present || !ok || dayResults == nil {
		return nil, appErrors.ErrInvalidDayResults
	}

	if len(dayResults) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidExerciseKeys, "dayResults must contain at least one exercise")
	}

	var invalid []string
	codes := make([]string, 0, len(dayResults))
	for key := range dayResults {
		if models.IsExerciseCode(key) {
			codes = append(codes, key)
		} else {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, appErrors.WithDetails(appErrors.ErrInvalidExerciseKeys, map[string]interface{}{
			"invalidKeys": invalid,
		})
	}
	sort.Strings(codes)

	return &Validated{
		Body:       obj,
		LessonID:   lessonID,
		DayResults: dayResults,
		Codes:      codes,
	}, nil
}
