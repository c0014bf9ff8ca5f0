package middleware

import (
	"net/http"
	"slices"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the operator's token carries one
// of roles.
func RequireRole(roles ...domain.OperatorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.OperatorRole(c.GetString("role"))
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}
		if !slices.Contains(roles, role) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Operator role "+string(role)+" may not perform this action")
			return
		}
		c.Next()
	}
}

// AdminOnly guards destructive session-wide operations: clearing beds and
// seats, and creating operators.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
