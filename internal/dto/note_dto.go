package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"omitempty,dive,max=64"`
}

// UpdateNoteRequest is a partial update: empty Title/Content keep the stored value,
// a nil Tags keeps the stored tags and a non-nil Tags replaces them.
type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Tags    []string  `json:"tags" validate:"omitempty,dive,max=64"`
}

type NoteResponse struct {
	Id        uuid.UUID `json:"id"`
	Owner     uuid.UUID `json:"owner"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListNotesRequest struct {
	Page  int
	Limit int
}

type ListNotesResponse struct {
	Notes []*NoteResponse `json:"notes"`
	Page  int             `json:"page"`
	Pages int             `json:"pages"`
	Total int64           `json:"total"`
}

// SuggestTagsRequest uses a pointer so an absent field can be told apart from "".
type SuggestTagsRequest struct {
	Content *string `json:"content" validate:"required"`
}

type SuggestTagsResponse struct {
	Tags []string `json:"tags"`
}

type PublishNoteEventMessage struct {
	Type       string    `json:"type"`
	NoteId     uuid.UUID `json:"note_id"`
	UserId     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}
