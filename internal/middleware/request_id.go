package middleware

import (
	"regexp"

	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"
)

// Request ids end up in logs and outbox rows, so foreign ones are length and charset bounded.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

func requestIDFrom(c *gin.Context) string {
	if rid := c.GetString(ContextRequestID); rid != "" {
		return rid
	}
	if rid := c.GetHeader(HeaderRequestID); requestIDPattern.MatchString(rid) {
		return rid
	}
	return uuid.NewString()
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := requestIDFrom(c)

		c.Set(ContextRequestID, rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))

		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
