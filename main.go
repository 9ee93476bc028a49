// @title                       Contact Intake API
// @version                     1.0
// @description                 Public contact-form intake and the operator submissions listing.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/db"
	_ "github.com/NomadCrew/contact-intake/docs"
	"github.com/NomadCrew/contact-intake/handlers"
	"github.com/NomadCrew/contact-intake/internal/events"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/middleware"
	"github.com/NomadCrew/contact-intake/router"
	"github.com/NomadCrew/contact-intake/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	submissionStore, closeStore, err := db.OpenStore(ctx, cfg, db.StoreOptions{Migrate: true})
	if err != nil {
		log.Fatalf("Failed to open submission store: %v", err)
	}
	defer closeStore()

	// Redis is optional; without it no submission events are published.
	var redisClient redis.UniversalClient
	var publisher events.Publisher
	if cfg.Redis.Address != "" {
		client := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
		if err := config.TestRedisConnection(ctx, client); err != nil {
			log.Warnw("Redis unavailable, submission events disabled", "error", err)
			_ = client.Close()
		} else {
			defer client.Close()
			redisClient = client
			publisher = events.NewRedisPublisher(client, reg, events.Config{Channel: cfg.Redis.Channel})
		}
	}

	var mailer services.NoticeSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.OperatorAddress != "" {
		mailer = services.NewEmailService(&cfg.Email, reg)
	}

	workerPool := services.NewWorkerPool(cfg.WorkerPool, reg)
	workerPool.SetJobTimeout(time.Duration(cfg.Notification.TimeoutSeconds) * time.Second)
	workerPool.Start()

	notifier := services.NewSubmissionNotifier(&cfg.Notification, workerPool, publisher, mailer)

	jwtValidator, err := middleware.NewJWTValidator(&cfg.Server)
	if err != nil {
		log.Fatalf("Failed to create JWT validator: %v", err)
	}

	metrics := handlers.NewMetrics(reg)
	r := router.SetupRouter(router.Dependencies{
		Config:         cfg,
		JWTValidator:   jwtValidator,
		IntakeHandler:  handlers.NewIntakeHandler(submissionStore, notifier, metrics),
		ListingHandler: handlers.NewListingHandler(submissionStore, metrics),
		HealthHandler:  handlers.NewHealthHandler(services.NewHealthService(submissionStore, redisClient, cfg.Server.Version)),
		Gatherer:       reg,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"store", cfg.Server.StoreDriver,
			"notifications", notifier.IsEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.WorkerPool.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Worker pool shutdown incomplete", "error", err)
	}

	log.Info("Server stopped")
}
