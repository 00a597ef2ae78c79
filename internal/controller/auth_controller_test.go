package controller

import (
	"context"
	"net/http"
	"testing"
	"time"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/apperror"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*dto.AuthResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*dto.AuthResponse)
	return res, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(token).Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	args := m.Called(userId)
	res, _ := args.Get(0).(*dto.UserProfileResponse)
	return res, args.Error(1)
}

func newUsersApp(auth *mockAuthService, users *mockUserService, userId uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.NewErrorHandler(logger.NewNopLogger())})
	middleware := func(ctx *fiber.Ctx) error {
		ctx.Locals(serverutils.LocalUserId, userId.String())
		ctx.Locals(serverutils.LocalToken, "the-token")
		return ctx.Next()
	}
	api := app.Group("/api")
	NewAuthController(auth, middleware).RegisterRoutes(api)
	NewUserController(users, middleware).RegisterRoutes(api)
	return app
}

func TestAuthController_Register(t *testing.T) {
	auth := &mockAuthService{}
	app := newUsersApp(auth, &mockUserService{}, uuid.New())

	auth.On("Register", mock.Anything).Return(&dto.AuthResponse{Id: uuid.New(), Email: "ada@example.com", Token: "tok", ExpiresAt: time.Now()}, nil).Once()
	auth.On("Register", mock.Anything).Return(nil, apperror.Conflict("Email already registered")).Once()

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`

	resp, _ := doRequest(t, app, http.MethodPost, "/api/users/register", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/users/register", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/users/register", `{"name":"Ada","email":"nope","password":"1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	auth.AssertNumberOfCalls(t, "Register", 2)
}

func TestAuthController_Login(t *testing.T) {
	auth := &mockAuthService{}
	app := newUsersApp(auth, &mockUserService{}, uuid.New())
	auth.On("Login", mock.Anything).Return(nil, apperror.Unauthorized("Invalid email or password"))

	resp, raw := doRequest(t, app, http.MethodPost, "/api/users/login", `{"email":"ada@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"code":401,"message":"Invalid email or password"}`, string(raw))
}

func TestAuthController_Logout(t *testing.T) {
	auth := &mockAuthService{}
	app := newUsersApp(auth, &mockUserService{}, uuid.New())
	auth.On("Logout", "the-token").Return(nil)

	resp, raw := doRequest(t, app, http.MethodPost, "/api/users/logout", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Logged out"}`, string(raw))
	auth.AssertExpectations(t)
}

func TestUserController_GetProfile(t *testing.T) {
	userId := uuid.New()
	users := &mockUserService{}
	app := newUsersApp(&mockAuthService{}, users, userId)
	users.On("GetProfile", userId).Return(&dto.UserProfileResponse{Id: userId, Name: "Ada"}, nil)

	resp, _ := doRequest(t, app, http.MethodGet, "/api/users/profile", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	users.AssertExpectations(t)
}
