package middleware

import (
	"net/http"
	"strings"

	"retreatdesk/internal/pkg/jwt"
	"retreatdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth puts "operator_id" and "role" into the context. Browsers cannot set
// headers on websocket upgrades, so an access_token query parameter is
// accepted when the header is absent.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		var token string
		switch {
		case header != "":
			scheme, value, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
				response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
				return
			}
			token = strings.TrimSpace(value)
		case c.Query("access_token") != "":
			token = c.Query("access_token")
		default:
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("operator_id", claims.OperatorID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
