package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/middleware"
	"github.com/FACorreiaa/tripweaver/internal/app/observability/metrics"
	"github.com/FACorreiaa/tripweaver/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes.
func SetupRouter(deps routes.Dependencies, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("tripweaver"))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	routes.Setup(r, deps, logger)

	return r
}

// requestLogger logs each request with latency and status and records
// the request metrics.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m := metrics.Get(); m != nil {
			m.HTTPRequestsTotal.Add(c.Request.Context(), 1)
			m.HTTPRequestDuration.Record(c.Request.Context(), time.Since(start).Seconds())
		}

		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
