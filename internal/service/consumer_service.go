package service

import (
	"context"
	"encoding/json"

	"booklog-be/internal/pkg/logger"
	"booklog-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// auditConsumerService writes every domain event to the audit log.
type auditConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	audit      logger.ILogger
	logger     logger.ILogger
}

func NewAuditConsumerService(
	subscriber message.Subscriber,
	topicName string,
	audit logger.ILogger,
	log logger.ILogger,
) IConsumerService {
	return &auditConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		audit:      audit,
		logger:     log,
	}
}

// Consume subscribes and returns immediately; messages are processed in the
// background until ctx is cancelled.
func (cs *auditConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *auditConsumerService) processMessage(msg *message.Message) {
	// Malformed messages are acked too, otherwise they would be redelivered forever.
	defer msg.Ack()

	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("AUDIT", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	details := map[string]interface{}{
		"occurred_at": envelope.OccurredAt,
		"message_id":  msg.UUID,
	}
	for k, v := range envelope.Data {
		details[k] = v
	}
	cs.audit.Info("AUDIT", envelope.Type, details)
}
