package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/events"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// inlinePool runs jobs synchronously so tests can assert on their effects.
type inlinePool struct {
	jobs   []Job
	accept bool
	errs   []error
}

func (p *inlinePool) Submit(job Job) bool {
	if !p.accept {
		return false
	}
	p.jobs = append(p.jobs, job)
	p.errs = append(p.errs, job.Execute(context.Background()))
	return true
}

type mockNoticeSender struct {
	mock.Mock
}

func (m *mockNoticeSender) SendSubmissionNotice(ctx context.Context, sub *types.Submission) error {
	return m.Called(ctx, sub).Error(0)
}

func TestSubmissionNotifier_PublishesAndEmails(t *testing.T) {
	pool := &inlinePool{accept: true}
	pub := events.NewMockPublisher()
	mailer := &mockNoticeSender{}
	mailer.On("SendSubmissionNotice", mock.Anything, mock.MatchedBy(func(s *types.Submission) bool {
		return s.ID == "sub-1"
	})).Return(nil).Once()

	n := NewSubmissionNotifier(&config.NotificationConfig{Enabled: true}, pool, pub, mailer)
	require.True(t, n.IsEnabled())
	require.True(t, n.NotifySubmissionCreated(testSubmission()))

	require.Len(t, pool.jobs, 1)
	assert.Equal(t, "submission.created:sub-1", pool.jobs[0].Name)
	assert.NoError(t, pool.errs[0])

	published := pub.Events()
	require.Len(t, published, 1)
	decoded, err := events.DecodeSubmission(published[0])
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", decoded.Email)
	mailer.AssertExpectations(t)
}

func TestSubmissionNotifier_PublishFailureStillEmails(t *testing.T) {
	pool := &inlinePool{accept: true}
	pub := events.NewMockPublisher()
	pub.Err = errors.New("redis down")
	mailer := &mockNoticeSender{}
	mailer.On("SendSubmissionNotice", mock.Anything, mock.Anything).Return(nil).Once()

	n := NewSubmissionNotifier(&config.NotificationConfig{Enabled: true}, pool, pub, mailer)
	require.True(t, n.NotifySubmissionCreated(testSubmission()))

	require.Error(t, pool.errs[0])
	assert.Contains(t, pool.errs[0].Error(), "redis down")
	mailer.AssertExpectations(t)
}

func TestSubmissionNotifier_Disabled(t *testing.T) {
	pool := &inlinePool{accept: true}
	pub := events.NewMockPublisher()

	tests := []struct {
		name string
		n    *SubmissionNotifier
	}{
		{"config off", NewSubmissionNotifier(&config.NotificationConfig{Enabled: false}, pool, pub, nil)},
		{"no sinks", NewSubmissionNotifier(&config.NotificationConfig{Enabled: true}, pool, nil, nil)},
		{"no pool", NewSubmissionNotifier(&config.NotificationConfig{Enabled: true}, nil, pub, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.n.IsEnabled())
			assert.False(t, tt.n.NotifySubmissionCreated(testSubmission()))
		})
	}
	assert.Empty(t, pool.jobs)
	assert.Empty(t, pub.Events())
}

func TestSubmissionNotifier_QueueFull(t *testing.T) {
	pool := &inlinePool{accept: false}
	n := NewSubmissionNotifier(&config.NotificationConfig{Enabled: true}, pool, events.NewMockPublisher(), nil)

	assert.False(t, n.NotifySubmissionCreated(testSubmission()))
}
