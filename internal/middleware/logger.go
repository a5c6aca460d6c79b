package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs one line per request. Failures get the error collected by the
// handler chain appended so job-triggering requests are traceable next to
// the ocr-job/compare-job log lines.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestID, _ := c.Get("request_id")
		status := c.Writer.Status()
		line := "http: reqId=%s %s %s status=%d dur=%s"
		args := []any{requestID, c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		if len(c.Errors) > 0 {
			line += " err=%q"
			args = append(args, c.Errors.String())
		}
		log.Printf(line, args...)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
