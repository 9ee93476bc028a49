package router

import (
	"net/http"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/handlers"
	"github.com/NomadCrew/contact-intake/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config         *config.Config
	JWTValidator   middleware.Validator
	IntakeHandler  *handlers.IntakeHandler
	ListingHandler *handlers.ListingHandler
	HealthHandler  *handlers.HealthHandler
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
	Logger   *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	if err := r.SetTrustedProxies(trustedProxies(deps.Config.Server.TrustedProxies)); err != nil && deps.Logger != nil {
		deps.Logger.Warnw("Invalid trusted proxy list, forwarding headers ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Health and Metrics Routes (no auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// Public intake. Any verb reaches the handler so non-POST methods get
		// a 405 body instead of the router's 404.
		public := api.Group("")
		public.Use(middleware.PublicCORS())
		public.Any("/submit-form", deps.IntakeHandler.SubmitForm)

		// Operator API
		operator := api.Group("")
		operator.Use(
			middleware.CORSMiddleware(&deps.Config.Server),
			middleware.ErrorHandler(),
			middleware.AuthMiddleware(deps.JWTValidator),
		)
		operator.GET("/submissions", deps.ListingHandler.ListSubmissions)
		// Preflight is answered by the CORS middleware before auth runs.
		operator.OPTIONS("/submissions", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	return r
}

func trustedProxies(proxies []string) []string {
	if len(proxies) == 0 {
		return nil
	}
	return proxies
}
