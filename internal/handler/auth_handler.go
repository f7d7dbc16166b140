package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepverse/prepverse-backend/internal/middleware"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
	"github.com/prepverse/prepverse-backend/internal/validator"
)

// AuthHandler handles candidate and admin authentication endpoints.
type AuthHandler struct {
	candidateService *service.CandidateService
	adminService     *service.AdminService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(candidateService *service.CandidateService, adminService *service.AdminService) *AuthHandler {
	return &AuthHandler{
		candidateService: candidateService,
		adminService:     adminService,
	}
}

// CandidateLogin godoc
// POST /api/v1/auth/candidate/login
func (h *AuthHandler) CandidateLogin(c *gin.Context) {
	var req model.CandidateLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.candidateService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// CandidateRegister godoc
// POST /api/v1/auth/candidate/register
func (h *AuthHandler) CandidateRegister(c *gin.Context) {
	var req model.CreateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidateService.Register(c.Request.Context(), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"candidate": candidate})
}

// CandidateLogout godoc
// POST /api/v1/auth/candidate/logout
// Releases the single-device session so another device can log in.
func (h *AuthHandler) CandidateLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.candidateService.Logout(c.Request.Context(), claims.UserID); err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// CandidateMe godoc
// GET /api/v1/candidate/me
func (h *AuthHandler) CandidateMe(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	candidate, err := h.candidateService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// AdminMe godoc
// GET /api/v1/admin/me
func (h *AuthHandler) AdminMe(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
