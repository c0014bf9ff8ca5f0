package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"retreatdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with a request id and writes one access
// line when it completes. An incoming X-Request-ID is kept.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()
		log.Printf("request method=%s path=%s status=%d operator_id=%d latency=%s request_id=%s",
			c.Request.Method, c.FullPath(), c.Writer.Status(), c.GetInt64("operator_id"), time.Since(start), id)
	}
}

// ErrorLogger turns panics into a 500 envelope and logs handler errors
// attached with c.Error.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				logFailure(c, start, "panic", rec)
				log.Printf("request_panic request_id=%s stack=%s", c.GetString("request_id"), debug.Stack())
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			}
		}()

		c.Next()

		for _, err := range c.Errors {
			logFailure(c, start, "handler", err.Err)
		}
		if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
			logFailure(c, start, "status", http.StatusText(c.Writer.Status()))
		}
	}
}

func logFailure(c *gin.Context, start time.Time, kind string, cause any) {
	log.Printf("request_error kind=%s status=%d method=%s path=%s session=%s operator_id=%d role=%s request_id=%s latency=%s error=%q",
		kind,
		c.Writer.Status(),
		c.Request.Method,
		c.Request.URL.Path,
		c.Param("id"),
		c.GetInt64("operator_id"),
		c.GetString("role"),
		c.GetString("request_id"),
		time.Since(start),
		cause,
	)
}
