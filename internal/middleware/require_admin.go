package middleware

import (
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequireAdmin only admits principals carrying the admin flag. It must run
// after AuthMiddleware; a missing principal means the chain is miswired and
// reads as unauthenticated rather than forbidden.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			metrics.RoleDenialsTotal.WithLabelValues("admin").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
			return
		}
		if !principal.IsAdmin {
			metrics.RoleDenialsTotal.WithLabelValues("admin").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Admin access required"})
			return
		}
		c.Next()
	}
}
