// Package handler exposes the HTTP surface of the scheduling API.
package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/response"
)

// pathID parses the :id route parameter. On failure it writes the error
// response and returns false.
func pathID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("invalid id %q", raw)))
		return 0, false
	}
	return id, true
}
