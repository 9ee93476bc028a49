package services

import (
	"context"
	"time"

	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// HealthService reports the state of the submission store and, when
// configured, the Redis event bus.
type HealthService struct {
	store       store.SubmissionStore
	redisClient redis.UniversalClient
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService creates a health service. redisClient may be nil when
// event publishing is disabled.
func NewHealthService(st store.SubmissionStore, redisClient redis.UniversalClient, version string) *HealthService {
	return &HealthService{
		store:       st,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger().Named("health"),
	}
}

// CheckHealth pings every dependency. A failing store makes the service DOWN;
// a failing event bus only degrades it because intake still works without it.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	storeStatus := h.checkStore(ctx)
	components[types.HealthComponentStore] = storeStatus
	if storeStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components[types.HealthComponentEventBus] = redisStatus
		if redisStatus.Status != types.HealthStatusUp && overallStatus != types.HealthStatusDown {
			overallStatus = types.HealthStatusDegraded
		}
	}

	return h.report(overallStatus, components)
}

// CheckLiveness reports UP as long as the process can answer.
func (h *HealthService) CheckLiveness() types.HealthCheck {
	return h.report(types.HealthStatusUp, map[string]types.HealthComponent{})
}

// CheckReadiness reflects whether the store accepts queries.
func (h *HealthService) CheckReadiness(ctx context.Context) types.HealthCheck {
	storeStatus := h.checkStore(ctx)
	return h.report(storeStatus.Status, map[string]types.HealthComponent{
		types.HealthComponentStore: storeStatus,
	})
}

func (h *HealthService) report(status types.HealthStatus, components map[string]types.HealthComponent) types.HealthCheck {
	return types.HealthCheck{
		Status:     status,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkStore(ctx context.Context) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Errorw("Store health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Store connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
