package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// allowOrigin accepts the configured origins plus any port on the loopback
// hosts, where the desk frontend runs during development.
func allowOrigin(origin string, extra map[string]bool) bool {
	if origin == "" {
		return false
	}
	if extra[origin] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "http" {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return true
	}
	return false
}

// CORS reflects allowed origins; extra carries CORS_ALLOWED_ORIGINS.
func CORS(extra []string) gin.HandlerFunc {
	configured := make(map[string]bool, len(extra))
	for _, o := range extra {
		configured[o] = true
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); allowOrigin(origin, configured) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, X-Request-ID")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Max-Age", "600")

		// preflight ends here, before JWT and role checks
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
