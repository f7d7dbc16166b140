package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepverse/prepverse-backend/internal/middleware"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/pattern"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
	"github.com/prepverse/prepverse-backend/internal/validator"
)

// TestHandler handles test management and the candidate lobby.
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// ListPatterns godoc
// GET /api/v1/patterns
// Lists the exam pattern catalog. Immutable at runtime; cacheable.
func (h *TestHandler) ListPatterns(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"patterns": pattern.All()})
}

// ListTests godoc
// GET /api/v1/admin/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	tests, pagination, err := h.testService.List(c.Request.Context(), page, perPage)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"tests": tests}, pagination)
}

// GetTest godoc
// GET /api/v1/admin/tests/:test_id
func (h *TestHandler) GetTest(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	t, err := h.testService.GetByID(c.Request.Context(), testID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": t})
}

// CreateTest godoc
// POST /api/v1/admin/tests
// Creates a new draft test bound to a catalog pattern.
func (h *TestHandler) CreateTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t := &model.Test{
		Title:          req.Title,
		PatternID:      req.PatternID,
		AuthorID:       claims.UserID,
		ScheduledStart: req.ScheduledStart,
		ExpiresAt:      req.ExpiresAt,
	}
	if req.RankingEnabled != nil {
		t.RankingEnabled = *req.RankingEnabled
	}

	if err := h.testService.Create(c.Request.Context(), t); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": t})
}

// UpdateTest godoc
// PUT /api/v1/admin/tests/:test_id
func (h *TestHandler) UpdateTest(c *gin.Context) {
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

	var req model.UpdateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	existing, err := h.testService.GetByID(c.Request.Context(), testID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	if req.Title != "" {
		existing.Title = req.Title
	}
	if req.ScheduledStart != nil {
		existing.ScheduledStart = req.ScheduledStart
	}
	if req.ExpiresAt != nil {
		existing.ExpiresAt = req.ExpiresAt
	}
	if req.RankingEnabled != nil {
		existing.RankingEnabled = *req.RankingEnabled
	}

	if err := h.testService.Update(c.Request.Context(), claims.UserID, existing); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": existing})
}

// DeleteTest godoc
// DELETE /api/v1/admin/tests/:test_id
func (h *TestHandler) DeleteTest(c *gin.Context) {
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

	if err := h.testService.Delete(c.Request.Context(), testID, claims.UserID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ReplaceQuestions godoc
// PUT /api/v1/admin/tests/:test_id/questions
// Bulk replaces a draft test's question set.
func (h *TestHandler) ReplaceQuestions(c *gin.Context) {
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

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions := make([]model.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = model.Question{
			TestID:        testID,
			SectionNumber: q.SectionNumber,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			OrderNum:      q.OrderNum,
		}
	}

	if err := h.testService.ReplaceQuestions(c.Request.Context(), testID, claims.UserID, questions); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(questions)})
}

// PublishTest godoc
// POST /api/v1/admin/tests/:test_id/publish
// Validates the question layout against the pattern and warms the cache.
func (h *TestHandler) PublishTest(c *gin.Context) {
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

	if err := h.testService.Publish(c.Request.Context(), testID, claims.UserID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"published": true})
}

// ArchiveTest godoc
// POST /api/v1/admin/tests/:test_id/archive
func (h *TestHandler) ArchiveTest(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.testService.Archive(c.Request.Context(), testID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"archived": true})
}

// GetResults godoc
// GET /api/v1/admin/tests/:test_id/results
func (h *TestHandler) GetResults(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	results, total, err := h.testService.GetResults(c.Request.Context(), testID, page, perPage)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results, "total": total})
}

// GetLobby godoc
// GET /api/v1/candidate/lobby
// Lists the tests visible to the candidate, overlaid with attempt state.
func (h *TestHandler) GetLobby(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lobby, err := h.testService.GetLobby(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": lobby})
}
