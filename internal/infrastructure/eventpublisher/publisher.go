package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/infrastructure/metrics"
)

// RedisPublisher implements usecase.EventPublisher over Redis pub/sub.
// Events go out on their channel as JSON; there is no outbox and no
// redelivery. Subscribers that miss an event miss it.
type RedisPublisher struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client, m *metrics.Metrics) *RedisPublisher {
	return &RedisPublisher{client: client, metrics: m}
}

// Publish sends the event to its channel.
func (p *RedisPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, event.Channel, payload).Err(); err != nil {
		if p.metrics != nil {
			p.metrics.EventErrors.Inc()
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(event.Kind).Inc()
	}

	return nil
}

// LogPublisher logs events instead of delivering them. Used when Redis is
// unavailable or events are disabled.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("kind", event.Kind).
		Str("channel", event.Channel).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
