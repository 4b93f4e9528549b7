package middleware

import (
	"errors"
	"net/http"

	"necx-chat/internal/transport/httpdto"
	necx_errors "necx-chat/pkg/errors"
	"necx-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	status int
	title  string
}

var kindMappings = map[necx_errors.Kind]errorMapping{
	necx_errors.KindValidation: {http.StatusBadRequest, "Validation Error"},
	necx_errors.KindNotFound:   {http.StatusNotFound, "Not Found"},
	necx_errors.KindConflict:   {http.StatusConflict, "Conflict Error"},
	necx_errors.KindStorage:    {http.StatusInternalServerError, "Internal Server Error"},
}

// ErrorHandler renders the last error pushed with c.Error. In production the
// message of a storage failure is replaced with a generic one.
func ErrorHandler(l *logger.Logger, production bool) gin.HandlerFunc {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ginErr := c.Errors.Last()
		log := l.WithContext(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		}

		var tooLarge *http.MaxBytesError
		if errors.As(ginErr.Err, &tooLarge) {
			log.Info("request body too large", fields...)
			c.JSON(http.StatusRequestEntityTooLarge, httpdto.NewErrorResponse("Payload Too Large",
				"Request body exceeds the allowed size", "PAYLOAD_TOO_LARGE"))
			return
		}
		if ginErr.IsType(gin.ErrorTypeBind) {
			log.Info("invalid request body", append(fields, zap.Error(ginErr.Err))...)
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("Invalid JSON",
				"Request body contains invalid JSON", string(necx_errors.KindValidation)))
			return
		}

		kind := necx_errors.KindOf(ginErr.Err)
		mapping := kindMappings[kind]
		message := ginErr.Err.Error()

		if kind == necx_errors.KindStorage {
			var domainErr *necx_errors.Error
			if errors.As(ginErr.Err, &domainErr) {
				fields = append(fields, zap.String("op", domainErr.Op), zap.NamedError("cause", domainErr.Err))
			} else {
				fields = append(fields, zap.NamedError("cause", ginErr.Err))
			}
			log.Error("request failed", fields...)
			if production {
				message = "An unexpected error occurred"
			}
		} else {
			log.Info("request rejected", append(fields, zap.String("kind", string(kind)), zap.String("reason", message))...)
		}

		c.JSON(mapping.status, httpdto.NewErrorResponse(mapping.title, message, string(kind)))
	}
}

// NotFound answers unknown routes with the JSON error envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Route Not Found",
			"The route "+c.Request.Method+" "+c.Request.URL.RequestURI()+" does not exist on this server",
			"ROUTE_NOT_FOUND"))
	}
}

// Recovery turns a panic into a 500 envelope and logs the value.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.WithContext(c.Request.Context()).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("Internal Server Error",
			"Something went wrong on the server", "INTERNAL_ERROR"))
	})
}
