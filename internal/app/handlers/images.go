package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/domain/images"
	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/app/ports"
)

type ImageHandlers struct {
	imageService images.Service
	source       ports.ExternalSource
	logger       *zap.Logger
}

func NewImageHandlers(imageService images.Service, source ports.ExternalSource, logger *zap.Logger) *ImageHandlers {
	return &ImageHandlers{
		imageService: imageService,
		source:       source,
		logger:       logger,
	}
}

// HandleRankImages scores candidate images for a subject and returns
// them best first.
func (h *ImageHandlers) HandleRankImages(c *gin.Context) {
	var req models.ImageRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}
	if len(req.Candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidates must not be empty"})
		return
	}

	ranked := h.imageService.ScoreAndRankImages(req.Candidates, req.SubjectName)
	c.JSON(http.StatusOK, models.ImageRankingResponse{RankedImages: ranked})
}

// HandleBestImage returns the single best candidate. When the caller
// supplies no candidates, they are searched through the external image
// provider using the subject name.
func (h *ImageHandlers) HandleBestImage(c *gin.Context) {
	var req models.ImageRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	if len(req.Candidates) == 0 && req.SubjectName != "" && h.source != nil {
		fetched, err := h.source.FetchImageCandidates(c.Request.Context(), req.SubjectName)
		if err != nil {
			if errors.Is(err, models.ErrRateLimited) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "Image provider rate limited"})
				return
			}
			h.logger.Error("Image candidate fetch failed",
				zap.String("subject", req.SubjectName), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch image candidates"})
			return
		}
		req.Candidates = fetched
	}

	best := h.imageService.BestImage(req.Candidates, req.SubjectName)
	if best == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no candidates available"})
		return
	}
	c.JSON(http.StatusOK, best)
}
