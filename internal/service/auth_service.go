package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/pkg/apperror"
	"smart-notes-be/internal/pkg/jwtauth"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/pkg/mailer"
	"smart-notes-be/internal/repository/contract"
	"smart-notes-be/internal/repository/specification"
	"smart-notes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	jwt          *jwtauth.Manager
	revocations  contract.TokenRevocationRepository
	emailService mailer.IEmailService
	log          logger.ILogger
	hashCost     int
	now          func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	jwt *jwtauth.Manager,
	revocations contract.TokenRevocationRepository,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		jwt:          jwt,
		revocations:  revocations,
		emailService: emailService,
		log:          log,
		hashCost:     bcrypt.DefaultCost,
		now:          time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	existing, err := repo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	now := s.now()
	user := entity.User{
		Id:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, &user); err != nil {
		return nil, apperror.Internal("failed to create user", err)
	}

	s.log.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id.String()})

	if s.emailService != nil {
		go func(to, name string) {
			// Delivery problems are logged by the mailer.
			_ = s.emailService.SendWelcome(to, name)
		}(user.Email, user.Name)
	}

	return s.issue(&user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Internal("failed to verify password", err)
	}

	return s.issue(user)
}

// Logout revokes token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return apperror.Unauthorized("Invalid token")
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.revocations.Revoke(ctx, jwtauth.Fingerprint(token), ttl); err != nil {
		return apperror.Internal("failed to revoke token", err)
	}

	s.log.Info("AUTH", "User logged out", map[string]interface{}{"user_id": claims.UserId.String()})
	return nil
}

func (s *authService) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.jwt.Issue(user.Id)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}
	return &dto.AuthResponse{
		Id:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
