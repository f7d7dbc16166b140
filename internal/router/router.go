package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepverse/prepverse-backend/internal/config"
	"github.com/prepverse/prepverse-backend/internal/handler"
	"github.com/prepverse/prepverse-backend/internal/middleware"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/prepverse/prepverse-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Test    *handler.TestHandler
	Attempt *handler.AttemptHandler
	Ranking *handler.RankingHandler
	Admin   *handler.AdminHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Every response carries request metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		// The pattern catalog never changes at runtime.
		publicAPI.GET("/patterns", middleware.CacheControl(3600), handlers.Test.ListPatterns)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/candidate/login", handlers.Auth.CandidateLogin)
		auth.POST("/candidate/register", handlers.Auth.CandidateRegister)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/candidate/logout", middleware.RequireCandidateJWT(authService), handlers.Auth.CandidateLogout)
		auth.GET("/candidate/me", middleware.RequireCandidateJWT(authService), handlers.Auth.CandidateMe)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.AdminMe)
	}

	// ─── 2. Candidate Group (JWT + Single Device) ──────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(
		middleware.RequireCandidateJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		candidateAPI.GET("/lobby", handlers.Test.GetLobby)
		candidateAPI.GET("/attempts", handlers.Attempt.ListAttempts)

		candidateAPI.POST("/tests/:test_id/attempts", handlers.Attempt.Start)
		candidateAPI.GET("/tests/:test_id/rankings", handlers.Ranking.GetRankings)
		candidateAPI.GET("/tests/:test_id/rankings/me", handlers.Ranking.GetMyRanking)

		candidateAPI.GET("/attempts/:attempt_id/state", handlers.Attempt.State)
		candidateAPI.PUT("/attempts/:attempt_id/answers/:question_id", handlers.Attempt.RecordAnswer)
		candidateAPI.POST("/attempts/:attempt_id/sections/:section/submit", handlers.Attempt.SubmitSection)
		candidateAPI.POST("/attempts/:attempt_id/submit", handlers.Attempt.SubmitTest)
		candidateAPI.GET("/attempts/:attempt_id/review", handlers.Attempt.Review)
	}

	// ─── 3. WebSocket Group (Candidate WS Auth) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireCandidateWSAuth(authService))
	{
		ws.GET("/candidate/attempts/:attempt_id/clock", handlers.WS.AttemptClockStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/tests", handlers.Test.ListTests)
		adminAPI.POST("/tests", handlers.Test.CreateTest)
		adminAPI.GET("/tests/:test_id", handlers.Test.GetTest)
		adminAPI.PUT("/tests/:test_id", handlers.Test.UpdateTest)
		adminAPI.DELETE("/tests/:test_id", handlers.Test.DeleteTest)
		adminAPI.PUT("/tests/:test_id/questions", handlers.Test.ReplaceQuestions)
		adminAPI.POST("/tests/:test_id/publish", handlers.Test.PublishTest)
		adminAPI.POST("/tests/:test_id/archive", handlers.Test.ArchiveTest)
		adminAPI.GET("/tests/:test_id/results", handlers.Test.GetResults)
		adminAPI.POST("/tests/:test_id/rankings/rebuild", handlers.Admin.RebuildRankings)

		adminAPI.DELETE("/attempts/:attempt_id", handlers.Admin.ResetAttempt)
		adminAPI.DELETE("/candidates/:candidate_id/session", handlers.Admin.ResetCandidateSession)
	}

	return router
}
