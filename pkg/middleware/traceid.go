package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"reelcraft/pkg/utils"
)

const TraceHeader = "X-Trace-ID"

// TraceIDMiddleware reuses a caller supplied trace id when it is a UUID and
// mints one otherwise.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set(TraceHeader, traceID)
		c.Request = c.Request.WithContext(utils.ContextWithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}
