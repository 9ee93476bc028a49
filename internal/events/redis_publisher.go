package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel receives submission events unless configured otherwise.
const DefaultChannel = "submissions:created"

// Config holds configuration for RedisPublisher.
type Config struct {
	Channel         string
	PublishTimeout  time.Duration
	EventBufferSize int
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		Channel:         DefaultChannel,
		PublishTimeout:  5 * time.Second,
		EventBufferSize: 100,
	}
}

type metrics struct {
	publishLatency prometheus.Histogram
	errorCount     *prometheus.CounterVec
	eventCount     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		publishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_event_publish_duration_seconds",
			Help:    "Time taken to publish events",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_event_errors_total",
			Help: "Total number of event-related errors",
		}, []string{"operation", "reason"}),
		eventCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_events_total",
			Help: "Total number of events by operation and type",
		}, []string{"operation", "type"}),
	}
	if reg != nil {
		reg.MustRegister(m.publishLatency, m.errorCount, m.eventCount)
	}
	return m
}

// RedisPublisher implements Publisher on Redis Pub/Sub.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	log     *zap.SugaredLogger
	metrics *metrics
	config  Config
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher. Metrics are registered on reg when it
// is non-nil.
func NewRedisPublisher(rdb redis.UniversalClient, reg prometheus.Registerer, cfg Config) *RedisPublisher {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultConfig().PublishTimeout
	}
	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = DefaultConfig().EventBufferSize
	}
	return &RedisPublisher{
		rdb:     rdb,
		log:     logger.GetLogger().Named("events"),
		metrics: newMetrics(reg),
		config:  cfg,
	}
}

// Channel returns the Pub/Sub channel events go to.
func (p *RedisPublisher) Channel() string {
	return p.config.Channel
}

// Publish sends event on the configured channel.
func (p *RedisPublisher) Publish(ctx context.Context, event types.Event) error {
	start := time.Now()
	defer func() {
		p.metrics.publishLatency.Observe(time.Since(start).Seconds())
	}()

	if err := event.Validate(); err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "validation").Inc()
		return fmt.Errorf("invalid event: %w", err)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "marshal").Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.config.Channel, data).Err(); err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "redis").Inc()
		return fmt.Errorf("redis publish: %w", err)
	}

	p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	p.log.Debugw("Published event", "eventID", event.ID, "type", event.Type, "channel", p.config.Channel)
	return nil
}

// Subscribe streams events from the configured channel until ctx is
// cancelled. Undecodable messages are skipped. When the consumer falls behind
// the buffer, new events are dropped.
func (p *RedisPublisher) Subscribe(ctx context.Context) (<-chan types.Event, error) {
	pubsub := p.rdb.Subscribe(ctx, p.config.Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		p.metrics.errorCount.WithLabelValues("subscribe", "redis").Inc()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan types.Event, p.config.EventBufferSize)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				event, err := decodeEvent(msg.Payload)
				if err != nil {
					p.metrics.errorCount.WithLabelValues("receive", "unmarshal").Inc()
					p.log.Warnw("Skipping undecodable event", "error", err, "channel", msg.Channel)
					continue
				}
				select {
				case out <- event:
					p.metrics.eventCount.WithLabelValues("receive", string(event.Type)).Inc()
				default:
					p.metrics.errorCount.WithLabelValues("receive", "buffer_full").Inc()
					p.log.Warnw("Dropped event due to full buffer", "eventID", event.ID)
				}
			}
		}
	}()
	return out, nil
}

func decodeEvent(payload string) (types.Event, error) {
	var event types.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return types.Event{}, err
	}
	if err := event.Validate(); err != nil {
		return types.Event{}, err
	}
	return event, nil
}
