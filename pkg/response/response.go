package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Volker37318/day-results-api/pkg/errors"
)

// The client contract is a flat JSON object keyed by "ok". Successful calls
// carry their payload next to it; failures carry a stable reason code plus
// any extra context the error collected.

// Ok sends a success response, merging the optional payload fields into the
// envelope.
func Ok(c *gin.Context, fields ...gin.H) {
	body := gin.H{"ok": true}
	for _, f := range fields {
		for k, v := range f {
			body[k] = v
		}
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, body)
}

// Fail sends an error response using the error's HTTP status.
func Fail(c *gin.Context, err error) {
	FailWithPolicy(c, err, true)
}

// FailWithPolicy sends an error response. When strict is false the HTTP
// status is forced to 200 so best-effort telemetry clients never see the
// ingestion failure as fatal; the body still reports ok:false.
func FailWithPolicy(c *gin.Context, err error, strict bool) {
	appErr := appErrors.FromError(err)
	body := gin.H{"ok": false, "reason": appErr.Code, "message": appErr.Message}
	for k, v := range appErr.Details {
		body[k] = v
	}
	status := appErr.Status
	if !strict {
		status = http.StatusOK
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, body)
}
