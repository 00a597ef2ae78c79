package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConsumerService_RelaysNoteEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	relayed := make(chan events.Event, 1)
	relay := &mockRelay{}
	relay.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { relayed <- args.Get(1).(events.Event) }).
		Return(errors.New("nats unavailable"))

	consumer := NewConsumerService(pubSub, "NOTE_EVENTS", relay, logger.NewNopLogger(), logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, "NOTE_EVENTS")
	noteId := uuid.New()
	payload, err := json.Marshal(dto.PublishNoteEventMessage{
		Type:       events.NoteCreated,
		NoteId:     noteId,
		UserId:     uuid.New(),
		Title:      "Standup",
		OccurredAt: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	select {
	case evt := <-relayed:
		assert.Equal(t, events.NoteCreated, evt.EventType())
		assert.Equal(t, noteId.String(), evt.Payload()["note_id"])
		assert.True(t, fixedNow.Equal(evt.Timestamp()))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not relayed")
	}
}

func TestConsumerService_AcksMalformedMessages(t *testing.T) {
	relay := &mockRelay{}
	cs := &consumerService{relay: relay, activityLog: logger.NewNopLogger(), log: logger.NewNopLogger()}

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	default:
		t.Fatal("message was not acked")
	}
	relay.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
