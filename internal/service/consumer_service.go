package service

import (
	"context"
	"encoding/json"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventRelay forwards note events outside the process. *nats.Publisher satisfies it.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	relay       EventRelay
	activityLog logger.ILogger
	log         logger.ILogger
}

// NewConsumerService drains the note event topic. relay may be nil when NATS is not configured.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	relay EventRelay,
	activityLog logger.ILogger,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		relay:       relay,
		activityLog: activityLog,
		log:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: a relay failure is logged and the event is dropped.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.PublishNoteEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("CONSUMER", "Failed to unmarshal note event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	details := map[string]interface{}{
		"type":    payload.Type,
		"note_id": payload.NoteId.String(),
		"user_id": payload.UserId.String(),
		"title":   payload.Title,
	}
	cs.activityLog.Info("ACTIVITY", payload.Type, details)

	if cs.relay == nil {
		return
	}

	evt := events.BaseEvent{
		Type: payload.Type,
		Data: map[string]interface{}{
			"note_id": payload.NoteId.String(),
			"user_id": payload.UserId.String(),
			"title":   payload.Title,
		},
		OccurredAt: payload.OccurredAt,
	}
	if err := cs.relay.Publish(ctx, evt); err != nil {
		cs.log.Warn("CONSUMER", "Failed to relay note event", map[string]interface{}{
			"type":  payload.Type,
			"error": err.Error(),
		})
	}
}
