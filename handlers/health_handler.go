package handlers

import (
	"context"
	"net/http"

	"github.com/NomadCrew/contact-intake/types"
	"github.com/gin-gonic/gin"
)

// HealthChecker is implemented by services.HealthService.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
	CheckLiveness() types.HealthCheck
	CheckReadiness(ctx context.Context) types.HealthCheck
}

type HealthHandler struct {
	healthService HealthChecker
}

func NewHealthHandler(healthService HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// LivenessCheck handles kubernetes liveness probe
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  types.HealthCheck
// @Router   /health/liveness [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.CheckLiveness())
}

// ReadinessCheck handles kubernetes readiness probe
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  types.HealthCheck
// @Failure  503  {object}  types.HealthCheck
// @Router   /health/readiness [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckReadiness(c.Request.Context())
	c.JSON(statusFor(health), health)
}

// DetailedHealth provides detailed health information
// @Summary  Dependency health
// @Tags     health
// @Produce  json
// @Success  200  {object}  types.HealthCheck
// @Failure  503  {object}  types.HealthCheck
// @Router   /health [get]
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	c.JSON(statusFor(health), health)
}

func statusFor(health types.HealthCheck) int {
	if health.Status == types.HealthStatusDown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
