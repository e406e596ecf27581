package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/fme-backend/internal/config"
	"github.com/ignatzorin/fme-backend/internal/http/handlers"
	"github.com/ignatzorin/fme-backend/internal/http/middleware"
	apiHandler "github.com/ignatzorin/fme-backend/internal/interface/http/handler"
	"github.com/ignatzorin/fme-backend/internal/service"
)

// SetupRouter собирает gin.Engine со всеми маршрутами сервиса.
func SetupRouter(
	cfg *config.Config,
	limitStore limiter.Store,
	tokenManager *service.TokenManager,
	authService *service.AuthService,
	authHandler *handlers.AuthHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	verificationHandler *apiHandler.VerificationHandler,
	learnerHandler *apiHandler.LearnerHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Резюме чуть больше лимита файла из-за полей формы.
	r.MaxMultipartMemory = (cfg.MaxUploadSizeMB + 1) << 20

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Верификация NIN: каждый вызов стоит денег у KYC/SMS провайдеров.
	verifyGroup := api.Group("")
	verifyGroup.Use(middleware.RateLimitMiddleware(limitStore, "verify", cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		verifyGroup.POST("/verify_nin", verificationHandler.VerifyNIN)
		verifyGroup.POST("/finalize_nin_verification", verificationHandler.FinalizeNINVerification)
		verifyGroup.POST("/nin_verification_token_resend", verificationHandler.ResendToken)
		verifyGroup.POST("/create_learner_profile",
			middleware.UUIDQueryValidator("verification_id"),
			learnerHandler.CreateLearnerProfile,
		)
	}

	dashboard := api.Group("/dashboard")
	{
		authRateLimit := middleware.RateLimitMiddleware(limitStore, "auth", 5, cfg.RateLimitPeriod)
		dashboard.POST("/login", authRateLimit, authHandler.Login)
		dashboard.POST("/refresh", authRateLimit, authHandler.Refresh)
		dashboard.POST("/logout", authHandler.Logout)
		dashboard.GET("/ws", wsHandler.Handle)
	}

	protected := dashboard.Group("")
	protected.Use(
		middleware.AuthMiddleware(tokenManager),
		middleware.RequireDashboardRole(),
		middleware.LastActiveMiddleware(authService),
	)
	{
		protected.GET("/me", authHandler.Me)
	}

	return r
}
