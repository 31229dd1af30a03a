package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler renders the last error attached to the context as JSON and
// turns panics into 500 responses.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Panic while serving request", "path", c.Request.URL.Path, "panic", rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			log.Error("Unhandled error", "path", c.Request.URL.Path, "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			return
		}

		status := appErr.StatusCode()
		msg := appErr.Error()
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
			msg = appErr.Message
		}
		c.JSON(status, ErrorResponse{Error: msg, Code: string(appErr.Kind)})
	}
}
