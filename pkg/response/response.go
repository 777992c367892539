package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

// ErrorBody is the JSON shape of every failure response.
type ErrorBody struct {
	OK    bool             `json:"ok"`
	Error *appErrors.Error `json:"error"`
}

// JSON sends a raw payload. Public read endpoints return bare arrays and
// objects rather than an envelope.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// OK sends `{"ok":true, ...fields}` with the given status.
func OK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(c, status, body)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, fields gin.H) {
	OK(c, http.StatusCreated, fields)
}

// Error converts any error into the structured failure body. Uncaught faults
// become 500s; callers never see a bare platform error page.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, ErrorBody{OK: false, Error: appErr})
}
