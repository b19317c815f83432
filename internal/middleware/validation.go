package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// BindJSON decodes and validates the request body into obj. On failure the
// error response is written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, validation.Translate(err))
		return false
	}
	return true
}

// BindQuery decodes and validates query parameters into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleAPIError(c, validation.Translate(err))
		return false
	}
	return true
}

// PathID parses the :id style parameter. A malformed id cannot name a stored
// row, so it is reported with the resource's not-found error.
func PathID(c *gin.Context, param string, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		HandleAPIError(c, notFound)
		return 0, false
	}
	return id, true
}
