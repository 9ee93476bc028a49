package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/events"
	"github.com/NomadCrew/contact-intake/logger"
)

// Swapped out in tests.
var newRedisClient = func(cfg *config.RedisConfig) redis.UniversalClient {
	return redis.NewClient(config.ConfigureRedisOptions(cfg))
}

// WatchCmd returns the watch command that tails submission events.
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print submission events as they are published",
		Long: `Subscribe to the submission event channel and print each new submission
until interrupted.

Examples:
  contactctl watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Redis.Address == "" {
				return errors.New("REDIS_ADDRESS is not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := newRedisClient(&cfg.Redis)
			defer client.Close()

			sub := events.NewRedisPublisher(client, nil, events.Config{Channel: cfg.Redis.Channel})
			stream, err := sub.Subscribe(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", bold(sub.Channel()))
			for event := range stream {
				s, err := events.DecodeSubmission(event)
				if err != nil {
					logger.GetLogger().Warnw("Skipping event without a submission payload", "eventID", event.ID, "error", err)
					continue
				}
				fmt.Fprintf(out, "%s %s  %s <%s> %s\n",
					event.Timestamp.UTC().Format(time.RFC3339),
					success(string(event.Type)),
					s.Name, s.Email, logger.MaskPhone(s.PhoneNumber))
			}
			return nil
		},
	}
	return cmd
}
