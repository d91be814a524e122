package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/osvaldoandrade/storeq/internal/metrics"
	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/auth"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key the gate stores the resolved
// principal under.
const PrincipalKey = "principal"

type principalContextKey struct{}

// AuthMiddleware is the request gate. It extracts the bearer credential,
// verifies it, resolves the token subject against the directory and attaches
// the resulting principal to the request. Each failure mode maps to its own
// status so callers can tell a bad credential from a vanished account.
func AuthMiddleware(verifier auth.Verifier, directory services.DirectoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerCredential(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthRequestsTotal.WithLabelValues("missing_credential").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			// The concrete verification error stays in the log.
			slog.Default().Warn("token verification failed", "err", err)
			metrics.AuthRequestsTotal.WithLabelValues("invalid_credential").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}

		principal, err := directory.FindPrincipalByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				slog.Default().Warn("token subject no longer exists", "userId", claims.UserID)
				metrics.AuthRequestsTotal.WithLabelValues("unknown_subject").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token - user not found"})
				return
			}
			slog.Default().Error("principal lookup failed", "userId", claims.UserID, "err", err)
			metrics.AuthRequestsTotal.WithLabelValues("lookup_failed").Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Authentication lookup failed"})
			return
		}

		metrics.AuthRequestsTotal.WithLabelValues("allowed").Inc()
		setPrincipal(c, principal)
		c.Next()
	}
}

// bearerCredential pulls the token out of an Authorization header. The
// scheme must be exactly "Bearer" and the token non-empty.
func bearerCredential(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) < 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setPrincipal(c *gin.Context, p *domain.Principal) {
	c.Set(PrincipalKey, p)
	ctx := context.WithValue(c.Request.Context(), principalContextKey{}, p)
	c.Request = c.Request.WithContext(ctx)
}

// CurrentPrincipal returns the principal the gate attached to this request.
func CurrentPrincipal(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}

// PrincipalFromContext reads the principal from a plain context, for code
// below the gin layer.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*domain.Principal)
	return p, ok && p != nil
}
