package service

import (
	"context"
	"time"

	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/repository/contract"
	"smart-notes-be/internal/repository/specification"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockFactory struct {
	uow *mockUnitOfWork
}

func (f *mockFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type mockUnitOfWork struct {
	notes *mockNoteRepository
	users *mockUserRepository
}

func newMockFactory() (*mockFactory, *mockNoteRepository, *mockUserRepository) {
	notes := &mockNoteRepository{}
	users := &mockUserRepository{}
	return &mockFactory{uow: &mockUnitOfWork{notes: notes, users: users}}, notes, users
}

func (u *mockUnitOfWork) Begin(context.Context) error { return nil }
func (u *mockUnitOfWork) Commit() error                { return nil }
func (u *mockUnitOfWork) Rollback() error              { return nil }

func (u *mockUnitOfWork) UserRepository() contract.UserRepository { return u.users }
func (u *mockUnitOfWork) NoteRepository() contract.NoteRepository { return u.notes }

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	args := m.Called(ctx, specs)
	note, _ := args.Get(0).(*entity.Note)
	return note, args.Error(1)
}

func (m *mockNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	args := m.Called(ctx, specs)
	notes, _ := args.Get(0).([]*entity.Note)
	return notes, args.Error(1)
}

func (m *mockNoteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	args := m.Called(ctx, specs)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type mockRevocations struct {
	mock.Mock
}

func (m *mockRevocations) Revoke(ctx context.Context, fingerprint string, ttl time.Duration) error {
	return m.Called(ctx, fingerprint, ttl).Error(0)
}

func (m *mockRevocations) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	args := m.Called(ctx, fingerprint)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, payload []byte) error {
	return m.Called(ctx, payload).Error(0)
}

type mockDigester struct {
	mock.Mock
}

func (m *mockDigester) Summarize(ctx context.Context, content string) string {
	return m.Called(ctx, content).String(0)
}

func (m *mockDigester) SuggestTags(content string) []string {
	tags, _ := m.Called(content).Get(0).([]string)
	return tags
}

type mockRelay struct {
	mock.Mock
}

func (m *mockRelay) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}
