package service

import (
	"context"
	"encoding/json"

	"booklog-be/internal/pkg/logger"
	"booklog-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	EventBookCreated  = "BOOK_CREATED"
	EventBookUpdated  = "BOOK_UPDATED"
	EventBookDeleted  = "BOOK_DELETED"
	EventMemoCreated  = "MEMO_CREATED"
	EventMemoUpdated  = "MEMO_UPDATED"
	EventMemoDeleted  = "MEMO_DELETED"
	EventGuestSeeded  = "GUEST_SEEDED"
	EventUserSignedUp = "USER_SIGNED_UP"
)

// EventStream is an external event bus such as NATS JetStream.
type EventStream interface {
	Publish(ctx context.Context, event events.Event) error
}

// IPublisherService fans domain events out after a successful commit.
// Publishing is best effort: failures are logged and never reach the caller.
type IPublisherService interface {
	Publish(ctx context.Context, event events.Event)
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
	stream    EventStream
	logger    logger.ILogger
}

// NewPublisherService publishes to topicName on pubSub and, when stream is
// non-nil, to the external stream as well.
func NewPublisherService(topicName string, pubSub message.Publisher, stream EventStream, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		stream:    stream,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(events.ToEnvelope(event))
	if err != nil {
		p.logger.Error("EVENTS", "Failed to marshal event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish event to local bus", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}

	if p.stream == nil {
		return
	}
	if err := p.stream.Publish(ctx, event); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish event to stream", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
