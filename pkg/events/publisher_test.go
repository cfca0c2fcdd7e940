package events

import (
	"context"
	"testing"
	"time"

	"prescription-chatbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPublisher_DeliversEnvelope(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, AuditTopic)
	require.NoError(t, err)

	publisher := NewChannelPublisher(pubSub, AuditTopic, logger.NewNopLogger())
	publisher.Publish(ctx, New(TypeQuestionAnswered, map[string]interface{}{"session_id": "abc"}))

	select {
	case msg := <-messages:
		evt, err := Unmarshal(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, TypeQuestionAnswered, evt.EventType())
		assert.Equal(t, "abc", evt.Payload()["session_id"])
		assert.False(t, evt.Timestamp().IsZero())
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestUnmarshal_RejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not json"))
	assert.Error(t, err)
}
