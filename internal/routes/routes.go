package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/domain/discovery"
	"github.com/FACorreiaa/tripweaver/internal/app/domain/images"
	"github.com/FACorreiaa/tripweaver/internal/app/domain/ranking"
	"github.com/FACorreiaa/tripweaver/internal/app/domain/segmenter"
	"github.com/FACorreiaa/tripweaver/internal/app/handlers"
	"github.com/FACorreiaa/tripweaver/internal/app/middleware"
	"github.com/FACorreiaa/tripweaver/internal/app/ports"
	"github.com/FACorreiaa/tripweaver/internal/pkg/config"
)

// Dependencies carries the port implementations the pipeline needs.
// They are constructed once at process start and injected here; no
// component reaches for process-wide singletons.
type Dependencies struct {
	Cache   ports.Cache
	Limiter ports.RateLimiter
	Source  ports.ExternalSource
	Config  *config.Config
}

// Setup wires the domain services and registers all API routes.
func Setup(r *gin.Engine, deps Dependencies, logger *zap.Logger) {
	segmenterService := segmenter.NewServiceImpl(logger)
	rankingService := ranking.NewServiceImpl(logger)
	imageService := images.NewServiceImpl(logger)
	discoveryService := discovery.NewServiceImpl(
		deps.Cache,
		deps.Limiter,
		deps.Source,
		discovery.Options{
			CacheTTL:     deps.Config.Discovery.CacheTTL,
			FetchWorkers: deps.Config.Discovery.FetchWorkers,
			FetchTimeout: deps.Config.Discovery.FetchTimeout,
		},
		logger,
	)

	itineraryHandlers := handlers.NewItineraryHandlers(segmenterService, logger)
	discoveryHandlers := handlers.NewDiscoveryHandlers(discoveryService, logger)
	rankingHandlers := handlers.NewRankingHandlers(rankingService, logger)
	imageHandlers := handlers.NewImageHandlers(imageService, deps.Source, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(deps.Limiter, logger))
	{
		api.POST("/itinerary/segments", itineraryHandlers.HandleSegmentRoute)
		api.POST("/discovery", discoveryHandlers.HandleDiscover)
		api.POST("/pois/rank", rankingHandlers.HandleRankPOIs)
		api.POST("/images/rank", imageHandlers.HandleRankImages)
		api.POST("/images/best", imageHandlers.HandleBestImage)
	}
}
