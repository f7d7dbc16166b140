package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepverse/prepverse-backend/internal/middleware"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
)

// RankingHandler serves the per-test ranking table.
type RankingHandler struct {
	rankingService *service.RankingService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// GetRankings godoc
// GET /api/v1/candidate/tests/:test_id/rankings
func (h *RankingHandler) GetRankings(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entries, err := h.rankingService.GetRankings(c.Request.Context(), testID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rankings": entries})
}

// GetMyRanking godoc
// GET /api/v1/candidate/tests/:test_id/rankings/me
// Returns the calling candidate's standing, or null if they have no
// completed attempt yet.
func (h *RankingHandler) GetMyRanking(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entry, err := h.rankingService.GetCandidateRanking(c.Request.Context(), testID, claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ranking": entry})
}
