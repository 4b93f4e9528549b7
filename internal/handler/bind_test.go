package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	necx_errors "necx-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pageQuery struct {
	Page int    `form:"page"`
	Name string `form:"name"`
}

func queryContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestBindQueryRejectsUnconvertibleValue(t *testing.T) {
	c := queryContext("/?page=abc&name=me")

	var q pageQuery
	require.False(t, bindQuery(c, &q))
	require.Len(t, c.Errors, 1)
	require.Equal(t, necx_errors.KindValidation, necx_errors.KindOf(c.Errors.Last().Err))
}

func TestBindQueryDecodesValues(t *testing.T) {
	c := queryContext("/?page=2&name=me")

	var q pageQuery
	require.True(t, bindQuery(c, &q))
	require.Empty(t, c.Errors)
	require.Equal(t, pageQuery{Page: 2, Name: "me"}, q)
}
