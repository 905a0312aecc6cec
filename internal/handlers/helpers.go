package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/estatecrm/backend/internal/errors"
)

// parseIDParam reads a numeric path parameter, answering 400 itself when
// the value is not a valid id.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
