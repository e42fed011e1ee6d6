package middleware

import (
	"fmt"
	"net/http"

	"crm_console_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panicking handler into a 500 and logs the panic value
// together with the request id set by httpkit.RequestLogger.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("panic recovered",
					"error", fmt.Sprint(rec),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
