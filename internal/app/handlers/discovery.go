package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/domain/discovery"
	"github.com/FACorreiaa/tripweaver/internal/app/middleware"
	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/app/observability/metrics"
)

type DiscoveryHandlers struct {
	discoveryService discovery.Service
	logger           *zap.Logger
}

func NewDiscoveryHandlers(discoveryService discovery.Service, logger *zap.Logger) *DiscoveryHandlers {
	return &DiscoveryHandlers{
		discoveryService: discoveryService,
		logger:           logger,
	}
}

// HandleDiscover runs the progressive POI discovery pipeline. By
// default it streams one SSE event per stage snapshot; with
// ?progressive=false it blocks and returns the terminal snapshot as
// plain JSON.
func (h *DiscoveryHandlers) HandleDiscover(c *gin.Context) {
	var req models.DiscoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}
	req.CallerID = middleware.CallerID(c)

	if m := metrics.Get(); m != nil {
		m.DiscoveryRequestsTotal.Add(c.Request.Context(), 1)
	}

	if c.DefaultQuery("progressive", "true") == "false" {
		h.discoverAndWait(c, req)
		return
	}
	h.discoverStreaming(c, req)
}

func (h *DiscoveryHandlers) discoverAndWait(c *gin.Context, req models.DiscoveryRequest) {
	snapshot, err := h.discoveryService.DiscoverAndWait(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Discovery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Discovery failed"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *DiscoveryHandlers) discoverStreaming(c *gin.Context, req models.DiscoveryRequest) {
	snapshots, err := h.discoveryService.Discover(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Discovery failed to start", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Discovery failed"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	for snapshot := range snapshots {
		c.SSEvent("progress", snapshot)
		flusher.Flush()
	}
}
