package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint derives a stable identity for a validated submission, used to
// suppress duplicate posts from client retries. Server-assigned fields are
// deliberately excluded so a retry of the same payload hashes identically;
// encoding/json sorts map keys, which keeps the hash stable across
// submissions that only differ in key order.
func Fingerprint(v *Validated) string {
	results, err := json.Marshal(v.DayResults)
	if err != nil {
		results = []byte("{}")
	}
	composite := fmt.Sprintf("%s|%s|%s|%s",
		v.LessonID,
		trimmedString(v.Body, "classCode"),
		trimmedString(v.Body, "participantId"),
		results,
	)
	sum := sha256.Sum256([]byte(composite))
	return hex.EncodeToString(sum[:])
}
