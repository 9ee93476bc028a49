package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// ErrNoOperatorAddress is returned when a notice is requested but nobody is
// configured to receive it.
var ErrNoOperatorAddress = errors.New("operator address is not configured")

// emailSender is the slice of the Resend emails API the service uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService notifies the operator about new submissions through Resend.
type EmailService struct {
	config  *config.EmailConfig
	sender  emailSender
	metrics *EmailMetrics
	tmpl    *template.Template
}

// NewEmailService creates the service. Metrics are registered on reg when it
// is non-nil.
func NewEmailService(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress,
		"apikey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 0),
		"operator", logger.MaskEmail(cfg.OperatorAddress))

	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}
	if reg != nil {
		reg.MustRegister(metrics.sendLatency, metrics.errorCount, metrics.sentCount)
	}

	return &EmailService{
		config:  cfg,
		sender:  resend.NewClient(cfg.ResendAPIKey).Emails,
		metrics: metrics,
		tmpl:    template.Must(template.New("submission").Parse(submissionNoticeTemplate)),
	}
}

// SendSubmissionNotice emails the operator the contents of a stored submission.
func (s *EmailService) SendSubmissionNotice(ctx context.Context, sub *types.Submission) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if s.config.OperatorAddress == "" {
		s.metrics.errorCount.Inc()
		return ErrNoOperatorAddress
	}

	var htmlContent bytes.Buffer
	if err := s.tmpl.Execute(&htmlContent, sub); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{s.config.OperatorAddress},
		ReplyTo: sub.Email,
		Subject: fmt.Sprintf("New contact form submission from %s", sub.Name),
		Html:    htmlContent.String(),
	}

	resp, err := s.sender.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"submissionID", sub.ID)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Submission notice sent",
		"submissionID", sub.ID,
		"emailID", resp.Id)
	return nil
}

const submissionNoticeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New contact form submission</title>
    <style>
        body { font-family: sans-serif; color: #333333; margin: 0; padding: 20px; }
        table { border-collapse: collapse; }
        th { text-align: left; padding: 6px 12px 6px 0; color: #777777; }
        td { padding: 6px 0; }
    </style>
</head>
<body>
    <h1>New contact form submission</h1>
    <table>
        <tr><th>Name</th><td>{{.Name}}</td></tr>
        <tr><th>Email</th><td>{{.Email}}</td></tr>
        <tr><th>Phone</th><td>{{.PhoneNumber}}</td></tr>
        <tr><th>Received</th><td>{{.SubmissionDate.UTC.Format "2006-01-02 15:04:05 MST"}}</td></tr>
        <tr><th>Reference</th><td>{{.ID}}</td></tr>
    </table>
</body>
</html>`
