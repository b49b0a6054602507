package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/handler"
	"github.com/stemsi/interview-assistant/internal/metrics"
	"github.com/stemsi/interview-assistant/internal/middleware"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	App       *handler.AppHandler
	Candidate *handler.CandidateHandler
	Interview *handler.InterviewHandler
	Report    *handler.ReportHandler
	Resume    *handler.ResumeHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
	WS        *handler.WSHandler
	// Monitor is nil when Redis is not available.
	Monitor *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background middleware state such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	tokenService *service.TokenService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

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
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware(log))
	router.Use(metrics.Middleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Résumé parsing is CPU-bound; 20 uploads per minute per IP.
	uploadLimiter := middleware.NewRateLimiter(ctx, 20, time.Minute)

	api := router.Group("/api/v1")
	{
		// ─── 1. App State ──────────────────────────────────────────────
		api.GET("/state", handlers.App.GetState)
		api.PUT("/state/tab", handlers.App.SetTab)
		api.PUT("/state/selection", handlers.App.SelectCandidate)
		api.DELETE("/state/welcome-back", handlers.App.DismissWelcomeBack)
		api.GET("/sessions/resumable", handlers.App.ListResumable)

		// ─── 2. Candidates ─────────────────────────────────────────────
		api.GET("/candidates", handlers.Candidate.ListCandidates)
		api.POST("/candidates", handlers.Candidate.CreateCandidate)
		api.GET("/candidates/:candidate_id", handlers.Candidate.GetCandidate)
		api.PATCH("/candidates/:candidate_id", handlers.Candidate.UpdateCandidate)
		api.POST("/candidates/:candidate_id/token", handlers.Candidate.IssueToken)

		// ─── 3. Interview Session ──────────────────────────────────────
		interview := api.Group("/candidates/:candidate_id/interview")
		{
			interview.POST("", handlers.Interview.StartInterview)
			interview.GET("", handlers.Interview.GetCurrent)
			interview.DELETE("", handlers.Interview.ResetInterview)
			interview.POST("/answers", handlers.Interview.SubmitAnswer)
			interview.PUT("/draft", handlers.Interview.SaveDraft)
			interview.POST("/pause", handlers.Interview.PauseInterview)
			interview.POST("/resume", handlers.Interview.ResumeInterview)
		}

		// ─── 4. Reports ────────────────────────────────────────────────
		api.GET("/candidates/:candidate_id/reports/:session_id", handlers.Report.GetReport)
		api.POST("/candidates/:candidate_id/reports/:session_id/email", handlers.Report.EmailReport)

		// ─── 5. Résumé Upload (Rate Limited) ───────────────────────────
		api.POST("/resumes/parse", uploadLimiter.Middleware(), handlers.Resume.ParseResume)

		// ─── 6. Analytics & System ─────────────────────────────────────
		api.GET("/analytics", handlers.Dashboard.GetDashboardData)
		api.GET("/system/status", handlers.System.GetStatus)

		if handlers.Monitor != nil {
			api.GET("/candidates/:candidate_id/monitor", handlers.Monitor.MonitorCandidateSSE)
		}
	}

	// ─── 7. WebSocket Group (Candidate Token) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireCandidateToken(tokenService))
	{
		ws.GET("/interviews/:candidate_id/stream", handlers.WS.InterviewStream)
	}

	return router
}
