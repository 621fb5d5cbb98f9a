package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Origin gates the websocket route to the configured browser origin.
// Non-browser clients (no Origin header) are let through.
func Origin(allowed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed != "" && origin != allowed {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
