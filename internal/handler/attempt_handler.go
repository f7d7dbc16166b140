package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepverse/prepverse-backend/internal/middleware"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
	"github.com/prepverse/prepverse-backend/internal/validator"
)

// AttemptHandler handles the candidate attempt lifecycle endpoints.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Start godoc
// POST /api/v1/candidate/tests/:test_id/attempts
// Starts a new attempt or resumes the existing incomplete one.
func (h *AttemptHandler) Start(c *gin.Context) {
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

	result, err := h.attemptService.Start(c.Request.Context(), testID, claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// State godoc
// GET /api/v1/candidate/attempts/:attempt_id/state
// Returns the reload/resume snapshot with the authoritative clock.
func (h *AttemptHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.State(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// RecordAnswer godoc
// PUT /api/v1/candidate/attempts/:attempt_id/answers/:question_id
// Upserts one answer; last write wins.
func (h *AttemptHandler) RecordAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attemptService.RecordAnswer(c.Request.Context(), attemptID, claims.UserID, questionID, &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SubmitSection godoc
// POST /api/v1/candidate/attempts/:attempt_id/sections/:section/submit
// Closes the section and activates the next, or completes the attempt.
func (h *AttemptHandler) SubmitSection(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	section, err := strconv.Atoi(c.Param("section"))
	if err != nil || section < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.SubmitSection(c.Request.Context(), attemptID, claims.UserID, section)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SubmitTest godoc
// POST /api/v1/candidate/attempts/:attempt_id/submit
// Finalizes the attempt; a duplicate submit fails with ALREADY_COMPLETED.
func (h *AttemptHandler) SubmitTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.attemptService.SubmitTest(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// Review godoc
// GET /api/v1/candidate/attempts/:attempt_id/review
// Post-completion answer review with correct/wrong verdicts.
func (h *AttemptHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	reviewed, summary, err := h.attemptService.Review(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary, "answers": reviewed})
}

// ListAttempts godoc
// GET /api/v1/candidate/attempts
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.attemptService.ListForCandidate(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
