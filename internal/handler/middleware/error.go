package middleware

import (
	"log/slog"
	"net/http"

	"meeting-room-booking/internal/handler/httperr"
	"meeting-room-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler recorded without writing a
// response. Public errors carry their envelope in Meta; anything else is
// mapped through the domain error table.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}

		status, msg := httperr.StatusOf(last.Err)
		if status >= http.StatusInternalServerError {
			slog.Error("unhandled request error",
				"request_id", GetRequestID(c),
				"path", c.FullPath(),
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, 5))
		}
		resp := httperr.Response{Status: status}
		resp.Error.Message = msg
		c.JSON(status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered from panic",
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", r)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
