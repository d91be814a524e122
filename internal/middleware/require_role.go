package middleware

import (
	"net/http"
	"strings"

	"github.com/osvaldoandrade/storeq/internal/metrics"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

// RoleRule is one acceptable authorization for a route. Rules carry a name
// so a denial can tell the caller what would have been enough.
type RoleRule interface {
	Name() string
	Allows(p *domain.Principal) bool
}

type attributeRule struct {
	name string
}

func (r attributeRule) Name() string { return r.name }

func (r attributeRule) Allows(p *domain.Principal) bool { return p.Flag(r.name) }

// Attribute matches when the named boolean flag is set on the principal.
// Unknown names never match.
func Attribute(name string) RoleRule {
	return attributeRule{name: name}
}

type predicateRule struct {
	name string
	fn   func(*domain.Principal) bool
}

func (r predicateRule) Name() string { return r.name }

func (r predicateRule) Allows(p *domain.Principal) bool { return r.fn(p) }

// Predicate matches when fn reports true for the principal.
func Predicate(name string, fn func(*domain.Principal) bool) RoleRule {
	return predicateRule{name: name, fn: fn}
}

// RequireAnyRole admits the request when at least one rule allows the
// principal, trying them in order and stopping at the first match. With no
// rules every authenticated principal is denied.
func RequireAnyRole(rules ...RoleRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			metrics.RoleDenialsTotal.WithLabelValues("any_role").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
			return
		}

		for _, rule := range rules {
			if rule.Allows(principal) {
				c.Next()
				return
			}
		}

		names := make([]string, 0, len(rules))
		for _, rule := range rules {
			names = append(names, rule.Name())
		}
		metrics.RoleDenialsTotal.WithLabelValues("any_role").Inc()
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Insufficient permissions. Required role(s): " + strings.Join(names, ", "),
		})
	}
}
