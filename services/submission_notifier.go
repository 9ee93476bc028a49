package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/events"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"go.uber.org/zap"
)

// JobSubmitter queues background work. *WorkerPool implements it.
type JobSubmitter interface {
	Submit(job Job) bool
}

// NoticeSender delivers the operator notice for a submission. *EmailService
// implements it.
type NoticeSender interface {
	SendSubmissionNotice(ctx context.Context, sub *types.Submission) error
}

// SubmissionNotifier fans a stored submission out to the event bus and the
// operator mailbox without blocking the intake request.
type SubmissionNotifier struct {
	pool      JobSubmitter
	publisher events.Publisher
	mailer    NoticeSender
	enabled   bool
	logger    *zap.SugaredLogger
}

// NewSubmissionNotifier wires the side effects. publisher and mailer are
// optional; with neither set, or with notifications disabled, the notifier
// does nothing.
func NewSubmissionNotifier(cfg *config.NotificationConfig, pool JobSubmitter, publisher events.Publisher, mailer NoticeSender) *SubmissionNotifier {
	log := logger.GetLogger().Named("notifier")
	enabled := cfg.Enabled && pool != nil && (publisher != nil || mailer != nil)
	if !enabled {
		log.Info("Submission notifications disabled")
	}
	return &SubmissionNotifier{
		pool:      pool,
		publisher: publisher,
		mailer:    mailer,
		enabled:   enabled,
		logger:    log,
	}
}

// IsEnabled returns whether notifications are enabled
func (n *SubmissionNotifier) IsEnabled() bool {
	return n.enabled
}

// NotifySubmissionCreated queues the side effects for sub. It reports whether
// a job was queued.
func (n *SubmissionNotifier) NotifySubmissionCreated(sub *types.Submission) bool {
	if !n.enabled || sub == nil {
		return false
	}
	snapshot := *sub
	return n.pool.Submit(Job{
		Name: "submission.created:" + snapshot.ID,
		Execute: func(ctx context.Context) error {
			return n.deliver(ctx, &snapshot)
		},
	})
}

// deliver runs every configured side effect even if an earlier one fails.
func (n *SubmissionNotifier) deliver(ctx context.Context, sub *types.Submission) error {
	var errs []error

	if n.publisher != nil {
		event, err := events.NewSubmissionCreated(sub)
		if err == nil {
			err = n.publisher.Publish(ctx, event)
		}
		if err != nil {
			n.logger.Warnw("Failed to publish submission event", "submissionID", sub.ID, "error", err)
			errs = append(errs, fmt.Errorf("publish: %w", err))
		}
	}

	if n.mailer != nil {
		if err := n.mailer.SendSubmissionNotice(ctx, sub); err != nil {
			n.logger.Warnw("Failed to send submission notice", "submissionID", sub.ID, "error", err)
			errs = append(errs, fmt.Errorf("notice: %w", err))
		}
	}

	return errors.Join(errs...)
}
