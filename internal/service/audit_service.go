package service

import (
	"context"

	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IAuditService interface {
	Consume(ctx context.Context) error
}

type auditService struct {
	subscriber message.Subscriber
	topicName  string
	auditLog   logger.ILogger
	logger     logger.ILogger
}

func NewAuditService(
	subscriber message.Subscriber,
	topicName string,
	auditLog logger.ILogger,
	logger logger.ILogger,
) IAuditService {
	return &auditService{
		subscriber: subscriber,
		topicName:  topicName,
		auditLog:   auditLog,
		logger:     logger,
	}
}

func (as *auditService) Consume(ctx context.Context) error {
	messages, err := as.subscriber.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(msg)
		}
	}()

	return nil
}

func (as *auditService) processMessage(msg *message.Message) {
	evt, err := events.Unmarshal(msg.Payload)
	if err != nil {
		as.logger.Error("AUDIT", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"message_id":  msg.UUID,
		"occurred_at": evt.OccurredAt,
	}
	for k, v := range evt.Data {
		details[k] = v
	}

	as.auditLog.Info("AUDIT", evt.Type, details)
	msg.Ack()
}
