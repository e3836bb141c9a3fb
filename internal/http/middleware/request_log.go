package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

// RequestLogger writes one line per request. Server errors carry the error
// text the client never sees.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", routeOf(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		ctx := c.Request.Context()
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = appendNonEmpty(fields, "trace_id", td.TraceID)
			fields = appendNonEmpty(fields, "request_id", td.RequestID)
		}
		if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
			fields = append(fields, "user_id", rd.UserID.String())
		}
		fields = appendNonEmpty(fields, "recipe_id", c.Param("id"))
		fields = appendNonEmpty(fields, "error_code", c.GetString(response.ErrorCodeKey))

		if status >= 500 {
			if last := c.Errors.Last(); last != nil {
				fields = append(fields, "error", last.Err)
			}
			log.Error("request failed", fields...)
			return
		}
		if status >= 400 {
			log.Warn("request rejected", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

func appendNonEmpty(fields []interface{}, key, val string) []interface{} {
	if val == "" {
		return fields
	}
	return append(fields, key, val)
}
