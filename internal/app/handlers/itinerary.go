package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/domain/segmenter"
	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/app/observability/metrics"
)

type ItineraryHandlers struct {
	segmenterService segmenter.Service
	logger           *zap.Logger
}

func NewItineraryHandlers(segmenterService segmenter.Service, logger *zap.Logger) *ItineraryHandlers {
	return &ItineraryHandlers{
		segmenterService: segmenterService,
		logger:           logger,
	}
}

// HandleSegmentRoute splits a route geometry into day legs and derives
// the overnight stops between them.
func (h *ItineraryHandlers) HandleSegmentRoute(c *gin.Context) {
	var req models.SegmentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	if m := metrics.Get(); m != nil {
		m.SegmentationRequestsTotal.Add(c.Request.Context(), 1)
	}

	resp, err := h.segmenterService.Segment(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Route segmentation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to segment route"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
