// Package cli holds the contactctl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/db"
	"github.com/NomadCrew/contact-intake/internal/store"
)

// Swapped out in tests.
var (
	loadConfig = config.LoadToolConfig
	openStore  = db.OpenStore
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// withStore loads configuration, opens the configured store and hands both to fn.
func withStore(ctx context.Context, fn func(cfg *config.Config, st store.SubmissionStore) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, closeStore, err := openStore(ctx, cfg, db.StoreOptions{})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()
	return fn(cfg, st)
}
