package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/esteticaio/api/observability"
)

// unmatchedRoute labels requests that matched no route, keeping the route
// attribute bounded.
const unmatchedRoute = "unmatched"

// Metrics records request count, duration and in-flight requests labelled
// by the matched route pattern. It runs inside Gin so /users/:id is one series.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
