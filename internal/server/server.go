package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/external"
	"github.com/FACorreiaa/tripweaver/internal/app/ports"
	"github.com/FACorreiaa/tripweaver/internal/pkg/cache"
	"github.com/FACorreiaa/tripweaver/internal/pkg/config"
	"github.com/FACorreiaa/tripweaver/internal/pkg/ratelimit"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router http.Handler

	cachePort  ports.Cache
	limiter    ports.RateLimiter
	source     ports.ExternalSource
	redisCache *cache.Redis
}

// New creates a Server and constructs the cache, rate-limit and
// external-source ports from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.redisCache = redisCache
		s.cachePort = redisCache
		logger.Info("Using Redis cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		s.cachePort = cache.NewMemory(cfg.Discovery.CacheTTL, 2*cfg.Discovery.CacheTTL, logger)
		logger.Info("Using in-memory cache")
	}

	s.limiter = ratelimit.NewSlidingWindow(logger, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	s.source = external.NewHTTPSource(cfg.External.BaseURL, cfg.External.APIKey, cfg.External.Timeout, logger)

	return s, nil
}

// HTTPServer creates and configures the HTTP server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler.
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// Cache returns the configured cache port.
func (s *Server) Cache() ports.Cache {
	return s.cachePort
}

// Limiter returns the configured rate limiter.
func (s *Server) Limiter() ports.RateLimiter {
	return s.limiter
}

// Source returns the configured external source.
func (s *Server) Source() ports.ExternalSource {
	return s.source
}

// Close releases server resources.
func (s *Server) Close() {
	if s.redisCache != nil {
		if err := s.redisCache.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
}
