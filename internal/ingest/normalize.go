package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Volker37318/day-results-api/internal/models"
	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

// Normalizer builds the canonical record from validated input. It performs
// no I/O; clock and id source are injectable for tests.
type Normalizer struct {
	now             func() time.Time
	newID           func() string
	requireIdentity bool
}

// NewNormalizer constructs a normalizer. requireIdentity switches the
// UNDEFINED_* sentinel fallback off and rejects submissions without class
// and participant instead.
func NewNormalizer(requireIdentity bool) *Normalizer {
	return &Normalizer{
		now:             time.Now,
		newID:           uuid.NewString,
		requireIdentity: requireIdentity,
	}
}

// WithClock overrides the clock. Test hook.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// WithIDSource overrides record id generation. Test hook.
func (n *Normalizer) WithIDSource(newID func() string) *Normalizer {
	n.newID = newID
	return n
}

// Normalize produces the canonical record for a validated submission.
// receivedAt is stamped from the server clock here and never read from the
// client; a client-supplied received_at field is discarded.
func (n *Normalizer) Normalize(v *Validated) (*models.ExerciseResult, error) {
	now := n.now().UTC()

	classCode := trimmedString(v.Body, "classCode")
	participantID := trimmedString(v.Body, "participantId")
	if n.requireIdentity && (classCode == "" || participantID == "") {
		return nil, appErrors.ErrMissingIdentity
	}
	if classCode == "" {
		classCode = models.UndefinedClass
	}
	if participantID == "" {
		participantID = models.UndefinedParticipant
	}

	// Narrow to the validated keys only; every submitted valid exercise is
	// retained, not just the first.
	dayResults := make(map[string]interface{}, len(v.Codes))
	for _, code := range v.Codes {
		dayResults[code] = v.DayResults[code]
	}

	return &models.ExerciseResult{
		ID:            n.newID(),
		ClassCode:     classCode,
		ParticipantID: participantID,
		LessonID:      v.LessonID,
		ExerciseCodes: append([]string(nil), v.Codes...),
		DayResults:    dayResults,
		DurationMs:    ExtractDurationMs(v.Body),
		Score:         ExtractScore(v.Body),
		CompletedAt:   n.completedAt(v.Body, now),
		ReceivedAt:    now,
		SchemaVersion: models.SchemaVersion,
	}, nil
}

// completedAt trusts the client timestamp only when it parses; anything
// else falls back to the server clock.
func (n *Normalizer) completedAt(body map[string]interface{}, now time.Time) time.Time {
	raw, present := body["completedAt"]
	if !present {
		return now
	}
	switch val := raw.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, val); err == nil {
				return ts.UTC()
			}
		}
	case float64:
		// Epoch milliseconds from older clients.
		if val > 0 {
			return time.UnixMilli(int64(val)).UTC()
		}
	}
	return now
}

func trimmedString(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
