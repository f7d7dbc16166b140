package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
)

// failFromErr maps service sentinels onto the response envelope. Every
// handler funnels its service errors through here so the API surface
// stays consistent.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrQuestionNotInTest):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrSessionAlreadyActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionActive)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrNotTestAuthor):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrTestUnavailable):
		response.Fail(c, http.StatusForbidden, response.ErrTestUnavailable)
	case errors.Is(err, service.ErrInvalidState):
		response.Fail(c, http.StatusConflict, response.ErrInvalidState)
	case errors.Is(err, service.ErrSectionMismatch):
		response.Fail(c, http.StatusConflict, response.ErrSectionMismatch)
	case errors.Is(err, service.ErrSectionExpired):
		response.Fail(c, http.StatusConflict, response.ErrSectionExpired)
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyCompleted)
	case errors.Is(err, service.ErrUnknownPattern):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownPattern)
	case errors.Is(err, service.ErrTestNotDraft):
		response.Fail(c, http.StatusBadRequest, response.ErrTestNotDraft)
	case errors.Is(err, service.ErrTestNotPublished):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidState)
	case errors.Is(err, service.ErrInsufficientContent):
		response.Fail(c, http.StatusBadRequest, response.ErrInsufficientContent)
	case errors.Is(err, service.ErrRankingDisabled):
		response.Fail(c, http.StatusBadRequest, response.ErrRankingDisabled)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
