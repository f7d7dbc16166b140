package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
)

// ContextKeyClaims is the Gin context key for JWT claims.
const ContextKeyClaims = "claims"

// tokenSource extracts the raw token string from a request.
type tokenSource func(c *gin.Context) string

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func queryToken(c *gin.Context) string {
	return c.Query("token")
}

// RequireCandidateJWT admits only candidate tokens from the
// Authorization header.
func RequireCandidateJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireToken(authService, service.TokenTypeCandidate, bearerToken, response.ErrCandidateAccessOnly)
}

// RequireAdminJWT admits only admin tokens from the Authorization header.
func RequireAdminJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireToken(authService, service.TokenTypeAdmin, bearerToken, response.ErrAdminAccessOnly)
}

// RequireCandidateWSAuth admits candidate tokens from the ?token= query
// param. WebSocket upgrades from browsers cannot set an Authorization
// header, so the clock stream authenticates this way.
func RequireCandidateWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return requireToken(authService, service.TokenTypeCandidate, queryToken, response.ErrCandidateAccessOnly)
}

func requireToken(authService *service.AuthService, want service.TokenType, source tokenSource, wrongType response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateFrom(c, authService, source)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if claims.TokenType != want {
			response.AbortFail(c, http.StatusForbidden, wrongType)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

func validateFrom(c *gin.Context, authService *service.AuthService, source tokenSource) (*service.Claims, error) {
	tokenStr := source(c)
	if tokenStr == "" {
		return nil, fmt.Errorf("token required")
	}
	return authService.ValidateToken(tokenStr)
}

// GetClaims retrieves the JWT claims set by one of the Require
// middlewares, or nil if the route ran without them.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
