package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Headers the public form endpoint sends on every response.
const (
	PublicAllowOrigin  = "*"
	PublicAllowMethods = "POST, OPTIONS"
	PublicAllowHeaders = "Content-Type"
)

// PublicCORS opens the intake endpoint to any browser origin. Headers are set
// unconditionally, including on requests without an Origin header, and
// preflight requests are answered with 204 and an empty body.
func PublicCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", PublicAllowOrigin)
		c.Header("Access-Control-Allow-Methods", PublicAllowMethods)
		c.Header("Access-Control-Allow-Headers", PublicAllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// CORSMiddleware restricts the operator API to the configured origins.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			RequestIDHeader,
		},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || containsOrigin(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowWildcard = hasWildcardOrigin(cfg.AllowedOrigins)
	}

	return cors.New(corsConfig)
}

func containsOrigin(origins []string, origin string) bool {
	for _, o := range origins {
		if o == origin {
			return true
		}
	}
	return false
}

func hasWildcardOrigin(origins []string) bool {
	for _, o := range origins {
		if strings.Contains(o, "*") {
			return true
		}
	}
	return false
}
