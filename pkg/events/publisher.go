package events

import (
	"context"

	"prescription-chatbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// AuditTopic carries every conversation event
const AuditTopic = "prescription.audit"

// Publisher abstracts event publishing; failures are logged, never returned
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// ChannelPublisher implements Publisher on a watermill publisher
type ChannelPublisher struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

func NewChannelPublisher(publisher message.Publisher, topic string, logger logger.ILogger) *ChannelPublisher {
	return &ChannelPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

func (p *ChannelPublisher) Publish(ctx context.Context, evt Event) {
	if p.publisher == nil {
		return
	}

	payload, err := Marshal(evt)
	if err != nil {
		p.logger.Error("EVENTS", "Failed to marshal event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
