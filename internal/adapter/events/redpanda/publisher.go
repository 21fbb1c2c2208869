// Package redpanda publishes session lifecycle events to a Redpanda/Kafka
// topic. Publishing is fire-and-forget: delivery failures are logged and
// never propagate into the conversation flow.
package redpanda

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// TopicSessionEvents is the topic session lifecycle events land on.
const TopicSessionEvents = "career-session-events"

// Publisher implements domain.EventPublisher over franz-go.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher connects a producer to the given brokers.
func NewPublisher(brokers []string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: no seed brokers provided", domain.ErrInvalidArgument)
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.RequestRetries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	slog.Info("session event publisher created", slog.Any("brokers", brokers), slog.String("topic", TopicSessionEvents))
	return &Publisher{client: client, topic: TopicSessionEvents}, nil
}

// Publish produces one event keyed by session id. The produce is async;
// errors surface in the callback log only.
func (p *Publisher) Publish(ctx domain.Context, ev domain.SessionEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: encode event: %v", domain.ErrInternal, err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.SessionID),
		Value: b,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			slog.Warn("session event delivery failed",
				slog.String("session_id", ev.SessionID),
				slog.String("type", ev.Type),
				slog.Any("error", err))
		}
	})
	return nil
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() error {
	p.client.Close()
	return nil
}

var _ domain.EventPublisher = (*Publisher)(nil)
