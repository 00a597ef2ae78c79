package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Summary   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userId created the note.
func (n *Note) OwnedBy(userId uuid.UUID) bool {
	return n.UserId == userId
}
