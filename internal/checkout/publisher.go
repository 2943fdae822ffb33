package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/google/uuid"
)

// EventSubmitted tags published checkout submissions.
const EventSubmitted = "checkout.submitted"

const envelopeVersion = 1

// Publisher hands a submission to whoever fulfils orders.
type Publisher interface {
	Publish(ctx context.Context, submission Submission) error
}

// Envelope is the stable wire format of a published submission.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope wraps submission for publishing.
func NewEnvelope(submission Submission) (Envelope, []byte, error) {
	data, err := json.Marshal(submission)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("encode submission: %w", err)
	}
	env := Envelope{
		Version:    envelopeVersion,
		EventID:    uuid.NewString(),
		EventType:  EventSubmitted,
		OccurredAt: submission.PlacedAt.UTC(),
		Data:       data,
	}
	encoded, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("encode envelope: %w", err)
	}
	return env, encoded, nil
}

type topicPublisher interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
}

// PubSubPublisher publishes submissions to a Pub/Sub topic.
type PubSubPublisher struct {
	client topicPublisher
	topic  string
	logg   *logger.Logger
}

// NewPubSubPublisher binds the publisher to topic.
func NewPubSubPublisher(client topicPublisher, topic string, logg *logger.Logger) (*PubSubPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("checkout topic required")
	}
	return &PubSubPublisher{client: client, topic: topic, logg: logg}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, submission Submission) error {
	env, payload, err := NewEnvelope(submission)
	if err != nil {
		return err
	}
	attrs := map[string]string{
		"event_type": env.EventType,
		"event_id":   env.EventID,
		"order_ref":  submission.OrderRef,
	}
	serverID, err := p.client.Publish(ctx, p.topic, payload, attrs)
	if err != nil {
		return fmt.Errorf("publish checkout submission: %w", err)
	}
	if p.logg != nil {
		p.logg.Info(p.logg.WithFields(ctx, map[string]any{
			"order_ref":  submission.OrderRef,
			"message_id": serverID,
			"topic":      p.topic,
		}), "checkout.submission.published")
	}
	return nil
}

// LogPublisher only records the submission. It stands in when no topic is configured.
type LogPublisher struct {
	logg *logger.Logger
}

// NewLogPublisher returns a publisher that writes submissions to the log.
func NewLogPublisher(logg *logger.Logger) *LogPublisher {
	return &LogPublisher{logg: logg}
}

func (p *LogPublisher) Publish(ctx context.Context, submission Submission) error {
	if p.logg == nil {
		return nil
	}
	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"order_ref": submission.OrderRef,
		"items":     len(submission.Items),
		"total":     submission.Total.StringFixed(2),
	}), "checkout.submission.logged")
	return nil
}
