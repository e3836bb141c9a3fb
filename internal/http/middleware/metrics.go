package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/observability"
)

// Metrics records per-route request counts and latency. Unmatched paths share
// one label so scanners cannot blow up cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		start := time.Now()
		c.Next()
		m.ObserveAPI(c.Request.Method, routeOf(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
