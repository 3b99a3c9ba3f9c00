package ingest

import (
	"encoding/json"
	"math"
	"strconv"
)

// Candidate key orders for fields whose physical JSON name has drifted
// across client releases. Order matters: first match wins.
var (
	durationKeys = []string{"duration_ms", "durationMs", "timeMs", "ms", "duration", "time"}
	scoreKeys    = []string{"score", "scoreAvg", "percent", "pct"}
)

// Coerce turns an untyped JSON value into a usable number. It returns false
// when the value cannot serve the field.
type Coerce func(v interface{}) (float64, bool)

// Extract tries each candidate key in order and returns the first value the
// coercion accepts. The boolean is false when no key yields a usable value.
func Extract(obj map[string]interface{}, keys []string, coerce Coerce) (float64, bool) {
	for _, key := range keys {
		raw, present := obj[key]
		if !present {
			continue
		}
		if n, ok := coerce(raw); ok {
			return n, true
		}
	}
	return 0, false
}

// asNumber accepts JSON numbers and numeric strings, rejecting NaN and
// infinities.
func asNumber(v interface{}) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func positiveNumber(v interface{}) (float64, bool) {
	n, ok := asNumber(v)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

func nonNegativeNumber(v interface{}) (float64, bool) {
	n, ok := asNumber(v)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// ExtractDurationMs resolves the exercise duration in milliseconds, or nil
// when no candidate key carries a usable value. Values below 1000 are
// assumed to be seconds and rescaled; that heuristic matches what older
// clients actually sent but cannot distinguish a genuine sub-second run.
func ExtractDurationMs(obj map[string]interface{}) *int64 {
	n, ok := Extract(obj, durationKeys, positiveNumber)
	if !ok {
		return nil
	}
	if n < 1000 {
		n *= 1000
	}
	ms := int64(n)
	return &ms
}

// ExtractScore resolves the submission score, or nil when absent.
func ExtractScore(obj map[string]interface{}) *float64 {
	n, ok := Extract(obj, scoreKeys, nonNegativeNumber)
	if !ok {
		return nil
	}
	return &n
}
