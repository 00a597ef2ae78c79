package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/apperror"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNoteService struct {
	mock.Mock
}

func (m *mockNoteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	args := m.Called(userId, req)
	res, _ := args.Get(0).(*dto.NoteResponse)
	return res, args.Error(1)
}

func (m *mockNoteService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) (*dto.ListNotesResponse, error) {
	args := m.Called(userId, req)
	res, _ := args.Get(0).(*dto.ListNotesResponse)
	return res, args.Error(1)
}

func (m *mockNoteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	args := m.Called(userId, id)
	res, _ := args.Get(0).(*dto.NoteResponse)
	return res, args.Error(1)
}

func (m *mockNoteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	args := m.Called(userId, req)
	res, _ := args.Get(0).(*dto.NoteResponse)
	return res, args.Error(1)
}

func (m *mockNoteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	return m.Called(userId, id).Error(0)
}

func (m *mockNoteService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.NoteResponse, error) {
	args := m.Called(userId, query)
	res, _ := args.Get(0).([]*dto.NoteResponse)
	return res, args.Error(1)
}

func (m *mockNoteService) SuggestTags(ctx context.Context, content string) *dto.SuggestTagsResponse {
	return m.Called(content).Get(0).(*dto.SuggestTagsResponse)
}

// fakeAuth stands in for the JWT middleware.
func fakeAuth(userId uuid.UUID) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(serverutils.LocalUserId, userId.String())
		return ctx.Next()
	}
}

func newNoteApp(svc *mockNoteService, userId uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.NewErrorHandler(logger.NewNopLogger())})
	NewNoteController(svc, fakeAuth(userId)).RegisterRoutes(app.Group("/api"))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestNoteController_Create(t *testing.T) {
	userId := uuid.New()
	svc := &mockNoteService{}
	app := newNoteApp(svc, userId)

	note := &dto.NoteResponse{Id: uuid.New(), Owner: userId, Title: "t", Content: "c", Summary: "c", Tags: []string{}}
	svc.On("Create", userId, mock.MatchedBy(func(req *dto.CreateNoteRequest) bool {
		return req.Title == "t" && req.Content == "c"
	})).Return(note, nil)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/notes", `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var got dto.NoteResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, note.Id, got.Id)
	assert.Equal(t, []string{}, got.Tags)
}

func TestNoteController_Create_Validation(t *testing.T) {
	svc := &mockNoteService{}
	app := newNoteApp(svc, uuid.New())

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"content":"c"}`},
		{name: "missing content", body: `{"title":"t"}`},
		{name: "malformed json", body: `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/api/notes", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNoteController_List(t *testing.T) {
	userId := uuid.New()
	svc := &mockNoteService{}
	app := newNoteApp(svc, userId)

	svc.On("List", userId, &dto.ListNotesRequest{Page: 2, Limit: 5}).
		Return(&dto.ListNotesResponse{Notes: []*dto.NoteResponse{}, Page: 2, Pages: 2, Total: 7}, nil)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/notes?page=2&limit=5", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"notes":[],"page":2,"pages":2,"total":7}`, string(raw))
}

func TestNoteController_Show_Errors(t *testing.T) {
	userId := uuid.New()
	noteId := uuid.New()
	foreignId := uuid.New()

	svc := &mockNoteService{}
	app := newNoteApp(svc, userId)
	svc.On("Show", userId, noteId).Return(nil, apperror.NotFound("Note not found"))
	svc.On("Show", userId, foreignId).Return(nil, apperror.Forbidden("You do not have access to this note"))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "unknown", path: "/api/notes/" + noteId.String(), status: http.StatusNotFound},
		{name: "malformed id", path: "/api/notes/not-a-uuid", status: http.StatusNotFound},
		{name: "other owner", path: "/api/notes/" + foreignId.String(), status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doRequest(t, app, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, resp.StatusCode)

			var body serverutils.ErrorBody
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.status, body.Code)
		})
	}
}

func TestNoteController_Update_PassesTagsPresence(t *testing.T) {
	userId := uuid.New()
	noteId := uuid.New()
	svc := &mockNoteService{}
	app := newNoteApp(svc, userId)

	svc.On("Update", userId, mock.MatchedBy(func(req *dto.UpdateNoteRequest) bool {
		return req.Id == noteId && req.Tags == nil && req.Title == "new"
	})).Return(&dto.NoteResponse{Id: noteId, Title: "new"}, nil).Once()
	svc.On("Update", userId, mock.MatchedBy(func(req *dto.UpdateNoteRequest) bool {
		return req.Id == noteId && req.Tags != nil && len(req.Tags) == 0
	})).Return(&dto.NoteResponse{Id: noteId, Tags: []string{}}, nil).Once()

	resp, _ := doRequest(t, app, http.MethodPut, "/api/notes/"+noteId.String(), `{"title":"new"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPut, "/api/notes/"+noteId.String(), `{"tags":[]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	svc.AssertExpectations(t)
}

func TestNoteController_Delete(t *testing.T) {
	userId := uuid.New()
	noteId := uuid.New()
	svc := &mockNoteService{}
	app := newNoteApp(svc, userId)
	svc.On("Delete", userId, noteId).Return(nil)

	resp, raw := doRequest(t, app, http.MethodDelete, "/api/notes/"+noteId.String(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Note removed"}`, string(raw))
}

func TestNoteController_Search(t *testing.T) {
	userId := uuid.New()
	svc := &mockNoteService{}
	app := newNoteApp(svc, userId)

	svc.On("Search", userId, "").Return(nil, apperror.Validation("Query is required"))
	svc.On("Search", userId, "budget").Return([]*dto.NoteResponse{{Id: uuid.New(), Tags: []string{}}}, nil)

	resp, _ := doRequest(t, app, http.MethodGet, "/api/notes/search", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/notes/search?query=budget", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []dto.NoteResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got, 1)
}

func TestNoteController_SuggestTags(t *testing.T) {
	svc := &mockNoteService{}
	app := newNoteApp(svc, uuid.New())

	svc.On("SuggestTags", "Meeting notes").Return(&dto.SuggestTagsResponse{Tags: []string{"meeting", "notes"}})
	svc.On("SuggestTags", "").Return(&dto.SuggestTagsResponse{Tags: []string{}})

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{name: "content", body: `{"content":"Meeting notes"}`, status: 200, want: `{"tags":["meeting","notes"]}`},
		{name: "empty content", body: `{"content":""}`, status: 200, want: `{"tags":[]}`},
		{name: "missing content", body: `{}`, status: 400},
		{name: "null content", body: `{"content":null}`, status: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doRequest(t, app, http.MethodPost, "/api/notes/suggest-tags", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.want != "" {
				assert.JSONEq(t, tt.want, string(raw))
			}
		})
	}
}
