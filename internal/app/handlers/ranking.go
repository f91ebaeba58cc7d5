package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/domain/ranking"
	"github.com/FACorreiaa/tripweaver/internal/app/models"
)

type RankingHandlers struct {
	rankingService ranking.Service
	logger         *zap.Logger
}

func NewRankingHandlers(rankingService ranking.Service, logger *zap.Logger) *RankingHandlers {
	return &RankingHandlers{
		rankingService: rankingService,
		logger:         logger,
	}
}

// HandleRankPOIs scores a POI set against the caller's interests and
// returns it sorted best first. Optional query params: top=N to keep
// only the N best, min_score=S to drop low scorers.
func (h *RankingHandlers) HandleRankPOIs(c *gin.Context) {
	var req models.RankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}
	if len(req.POIs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pois must not be empty"})
		return
	}

	ranked := h.rankingService.RankPOIs(req.POIs, req.UserInterests)

	if minScore, err := strconv.Atoi(c.Query("min_score")); err == nil {
		ranked = h.rankingService.FilterByMinScore(ranked, minScore)
	}
	if top, err := strconv.Atoi(c.Query("top")); err == nil && top >= 0 && top < len(ranked) {
		ranked = ranked[:top]
	}

	c.JSON(http.StatusOK, models.RankingResponse{RankedPOIs: ranked})
}
