package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/pkg/apperror"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/repository/contract"
	"smart-notes-be/internal/repository/specification"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/pkg/events"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// NoteDigester computes the summary and tag suggestions for note content.
type NoteDigester interface {
	Summarize(ctx context.Context, content string) string
	SuggestTags(content string) []string
}

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) (*dto.ListNotesResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.NoteResponse, error)
	SuggestTags(ctx context.Context, content string) *dto.SuggestTagsResponse
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	digester         NoteDigester
	log              logger.ILogger
	now              func() time.Time
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	digester NoteDigester,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		digester:         digester,
		log:              log,
		now:              time.Now,
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperror.Validation("title and content are required")
	}

	now := s.now()
	note := entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		Summary:   s.digester.Summarize(ctx, req.Content),
		Tags:      dedupeTags(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, apperror.Internal("failed to create note", err)
	}

	s.publish(ctx, events.NoteCreated, &note)

	return toNoteResponse(&note), nil
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) (*dto.ListNotesResponse, error) {
	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NoteRepository()

	total, err := repo.Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, apperror.Internal("failed to count notes", err)
	}

	notes, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, apperror.Internal("failed to list notes", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.ListNotesResponse{
		Notes: toNoteResponses(notes),
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" && req.Content != note.Content {
		note.Content = req.Content
		note.Summary = s.digester.Summarize(ctx, req.Content)
	}
	if req.Tags != nil {
		note.Tags = dedupeTags(req.Tags)
	}
	note.UpdatedAt = s.now()

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return nil, apperror.NotFound("Note not found")
		}
		return nil, apperror.Internal("failed to update note", err)
	}

	s.publish(ctx, events.NoteUpdated, note)

	return toNoteResponse(note), nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return apperror.Internal("failed to delete note", err)
	}

	s.publish(ctx, events.NoteDeleted, note)

	return nil
}

func (s *noteService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.NoteResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.Validation("Query is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	search := func(q specification.NoteSearchQuery) ([]*entity.Note, error) {
		return uow.NoteRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			q,
			specification.OrderBy{Field: "updated_at", Desc: true},
		)
	}

	notes, err := search(specification.NoteSearchQuery{Query: query})
	if errors.Is(err, contract.ErrInvalidPattern) {
		s.log.Warn("NOTE", "Search pattern rejected by database, retrying as literal", map[string]interface{}{
			"query": query,
		})
		notes, err = search(specification.NoteSearchQuery{Query: query, Literal: true})
	}
	if err != nil {
		return nil, apperror.Internal("failed to search notes", err)
	}

	return toNoteResponses(notes), nil
}

// SuggestTags never touches stored notes; callers decide whether to apply the result.
func (s *noteService) SuggestTags(_ context.Context, content string) *dto.SuggestTagsResponse {
	tags := s.digester.SuggestTags(content)
	if tags == nil {
		tags = []string{}
	}
	return &dto.SuggestTagsResponse{Tags: tags}
}

// findOwned loads a note and checks ownership: unknown ids are 404, foreign notes 403.
func (s *noteService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("failed to load note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("Note not found")
	}
	if !note.OwnedBy(userId) {
		return nil, apperror.Forbidden("You do not have access to this note")
	}
	return note, nil
}

// publish is best effort; a lost event never fails the request.
func (s *noteService) publish(ctx context.Context, eventType string, note *entity.Note) {
	if s.publisherService == nil {
		return
	}

	payload, err := json.Marshal(dto.PublishNoteEventMessage{
		Type:       eventType,
		NoteId:     note.Id,
		UserId:     note.UserId,
		Title:      note.Title,
		OccurredAt: s.now(),
	})
	if err != nil {
		s.log.Warn("NOTE", "Failed to encode note event", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("NOTE", "Failed to publish note event", map[string]interface{}{
			"type":    eventType,
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}
}

// dedupeTags trims tags, drops blanks and repeats (case-sensitive), keeping order.
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.NoteResponse{
		Id:        note.Id,
		Owner:     note.UserId,
		Title:     note.Title,
		Content:   note.Content,
		Summary:   note.Summary,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func toNoteResponses(notes []*entity.Note) []*dto.NoteResponse {
	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		res = append(res, toNoteResponse(note))
	}
	return res
}
