package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/AnTengye/casebrief/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 carrying the request id. Browser
// requests outside /api get the errorPage template when one is given; the
// router must have templates loaded in that case. Everything else gets JSON.
func Recovery(errorPage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			requestID := GetRequestID(c)

			logger.Error(c.Request.Context(), "panic recovered",
				"error", err,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			if errorPage != "" && wantsPage(c) {
				c.HTML(http.StatusInternalServerError, errorPage, gin.H{
					"Status":    http.StatusInternalServerError,
					"Message":   "Internal server error",
					"RequestID": requestID,
				})
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}()

		c.Next()
	}
}

func wantsPage(c *gin.Context) bool {
	path := c.Request.URL.Path
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		return false
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML
}
