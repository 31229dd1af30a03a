package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/apitizers/backend/internal/apperr"
)

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(apperr.Invalid("invalid %s: %q", name, raw))
		return 0, false
	}
	return uint(id), true
}
