package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// AuthService coordinates registration and login flows. Credential
// verification happens here; token issuance is delegated to the
// TokenManager.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account and issues its first token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	exists, err := s.users.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exists {
		return nil, "", time.Time{}, apperrors.NewConflict("user already exists", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.issueFor(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.Email, map[string]any{"user_id": user.ID})
	return user, token, exp, nil
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.issueFor(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.Email, map[string]any{"user_id": user.ID})
	return user, token, exp, nil
}

// Profile loads the account behind an authenticated identity.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueFor(user *domain.User) (string, time.Time, error) {
	return s.tokenMgr.Issue(auth.TokenInput{
		SubjectID: user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
	})
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actor string, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{Type: eventType, ActorEmail: actor, Payload: payload})
}
