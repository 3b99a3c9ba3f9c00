package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"lessonId": "lesson-7",
		"dayResults": map[string]interface{}{
			"A": map[string]interface{}{"answers": []interface{}{"x"}},
			"C": map[string]interface{}{"answers": []interface{}{"y"}},
		},
	}
}

func TestValidateRejectsNonObjectBody(t *testing.T) {
	for _, body := range []interface{}{nil, "text", float64(5), []interface{}{1, 2}} {
		_, err := Validate(body)
		require.NotNil(t, err)
		assert.Equal(t, appErrors.ErrInvalidBody.Code, err.Code)
	}
}

func TestValidateRejectsMissingLessonID(t *testing.T) {
	for name, body := range map[string]map[string]interface{}{
		"absent":     {"dayResults": map[string]interface{}{"A": 1}},
		"empty":      {"lessonId": "", "dayResults": map[string]interface{}{"A": 1}},
		"whitespace": {"lessonId": "   ", "dayResults": map[string]interface{}{"A": 1}},
		"non-string": {"lessonId": float64(12), "dayResults": map[string]interface{}{"A": 1}},
	} {
		_, err := Validate(body)
		require.NotNil(t, err, name)
		assert.Equal(t, appErrors.ErrMissingLessonID.Code, err.Code, name)
	}
}

func TestValidateRejectsBadDayResults(t *testing.T) {
	for name, raw := range map[string]interface{}{
		"absent": nil,
		"array":  []interface{}{"A"},
		"string": "A",
	} {
		body := map[string]interface{}{"lessonId": "lesson-7"}
		if raw != nil {
			body["dayResults"] = raw
		}
		_, err := Validate(body)
		require.NotNil(t, err, name)
		assert.Equal(t, appErrors.ErrInvalidDayResults.Code, err.Code, name)
	}
}

func TestValidateRejectsEmptyDayResults(t *testing.T) {
	_, err := Validate(map[string]interface{}{
		"lessonId":   "lesson-7",
		"dayResults": map[string]interface{}{},
	})
	require.NotNil(t, err)
	assert.Equal(t, appErrors.ErrInvalidExerciseKeys.Code, err.Code)
}

func TestValidateReportsOffendingKeys(t *testing.T) {
	_, err := Validate(map[string]interface{}{
		"lessonId": "lesson-7",
		"dayResults": map[string]interface{}{
			"A": 1,
			"Z": 2,
			"Q": 3,
		},
	})
	require.NotNil(t, err)
	assert.Equal(t, appErrors.ErrInvalidExerciseKeys.Code, err.Code)
	require.NotNil(t, err.Details)
	assert.Equal(t, []string{"Q", "Z"}, err.Details["invalidKeys"])
}

func TestValidateShortCircuitsOnFirstFailure(t *testing.T) {
	// Both lessonId and dayResults are broken; only the more fundamental
	// problem is reported.
	_, err := Validate(map[string]interface{}{"dayResults": "nope"})
	require.NotNil(t, err)
	assert.Equal(t, appErrors.ErrMissingLessonID.Code, err.Code)
}

func TestValidateAcceptsAllValidKeys(t *testing.T) {
	v, err := Validate(validBody())
	require.Nil(t, err)
	assert.Equal(t, "lesson-7", v.LessonID)
	assert.Equal(t, []string{"A", "C"}, v.Codes)
	assert.Len(t, v.DayResults, 2)
}

func TestValidateTrimsLessonID(t *testing.T) {
	body := validBody()
	body["lessonId"] = "  lesson-7  "
	v, err := Validate(body)
	require.Nil(t, err)
	assert.Equal(t, "lesson-7", v.LessonID)
}
