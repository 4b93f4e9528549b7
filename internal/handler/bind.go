package handler

import (
	"errors"
	"io"

	necx_errors "necx-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst. An empty body leaves dst zeroed so
// the service reports the missing fields. Decode failures are pushed as bind errors.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// bindQuery decodes query parameters into dst. A value that cannot be converted
// to its field type is reported as a validation error.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		_ = c.Error(necx_errors.Validation("Invalid query parameters"))
		return false
	}
	return true
}
