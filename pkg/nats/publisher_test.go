package nats

import (
	"testing"

	"smart-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.NOTE_CREATED", Subject(events.NoteCreated))
	assert.Equal(t, "events.NOTE_DELETED", Subject(events.NoteDeleted))
}

func TestClose_NilConnection(t *testing.T) {
	p := &Publisher{}
	assert.NotPanics(t, p.Close)
}
