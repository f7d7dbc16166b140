package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
)

// AdminHandler handles administrative maintenance endpoints.
type AdminHandler struct {
	attemptService *service.AttemptService
	rankingService *service.RankingService
	authService    *service.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	attemptService *service.AttemptService,
	rankingService *service.RankingService,
	authService *service.AuthService,
) *AdminHandler {
	return &AdminHandler{
		attemptService: attemptService,
		rankingService: rankingService,
		authService:    authService,
	}
}

// ResetAttempt godoc
// DELETE /api/v1/admin/attempts/:attempt_id
// Deletes an attempt and its answers so the candidate can start over.
// The only path that ever destroys an attempt.
func (h *AdminHandler) ResetAttempt(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.attemptService.Reset(c.Request.Context(), attemptID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reset": true})
}

// RebuildRankings godoc
// POST /api/v1/admin/tests/:test_id/rankings/rebuild
// Forces a synchronous full ranking recomputation.
func (h *AdminHandler) RebuildRankings(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.rankingService.RankTest(c.Request.Context(), testID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rebuilt": true})
}

// ResetCandidateSession godoc
// DELETE /api/v1/admin/candidates/:candidate_id/session
// Releases a candidate's single-device session after a device loss.
func (h *AdminHandler) ResetCandidateSession(c *gin.Context) {
	candidateID, err := strconv.Atoi(c.Param("candidate_id"))
	if err != nil || candidateID < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.authService.ResetCandidateSession(c.Request.Context(), candidateID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
