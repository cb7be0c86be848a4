package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/layer-3/facegate/ports"
)

const (
	// TopicSessionStarted carries freshly committed session announcements
	TopicSessionStarted = "facegate.session.started"

	// TopicSessionEnded carries session teardown announcements
	TopicSessionEnded = "facegate.session.ended"
)

// SessionEvent is the payload published on both session topics.
type SessionEvent struct {
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface on top of a
// Watermill message publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill-backed event publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// SessionStarted announces a freshly committed session.
func (p *WatermillPublisher) SessionStarted(ctx context.Context) error {
	return p.publish(TopicSessionStarted, SessionEvent{At: time.Now()})
}

// SessionEnded announces a torn-down session with the teardown reason.
func (p *WatermillPublisher) SessionEnded(ctx context.Context, reason string) error {
	return p.publish(TopicSessionEnded, SessionEvent{Reason: reason, At: time.Now()})
}

func (p *WatermillPublisher) publish(topic string, event SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
