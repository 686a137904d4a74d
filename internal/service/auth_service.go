package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/observability"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

// LoginLimiter throttles repeated failed logins per identifier.
type LoginLimiter interface {
	Allow(ctx context.Context, identifier string) bool
	RecordFailure(ctx context.Context, identifier string)
	Reset(ctx context.Context, identifier string)
}

// AuthService coordinates credential verification and token issuance.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokenMgr   *auth.TokenManager
	limiter    LoginLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Limiter    LoginLimiter
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth),
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login verifies the identifier/password pair and mints a token embedding the
// caller's current roles. Unknown identifier and wrong password return the
// same error value so the response shape never reveals which check failed.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, time.Time, error) {
	if s.limiter != nil && !s.limiter.Allow(ctx, identifier) {
		observability.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		s.publishLoginFailed(ctx, identifier, "throttled")
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.CompareDummy(password)
			return "", time.Time{}, s.loginFailed(ctx, identifier, "unknown identifier")
		}
		return "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, s.loginFailed(ctx, identifier, "password mismatch")
	}

	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Generate(user, roles)
	if err != nil {
		return "", time.Time{}, err
	}

	if s.limiter != nil {
		s.limiter.Reset(ctx, identifier)
	}
	observability.LoginAttemptsTotal.WithLabelValues("success").Inc()
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventLoginSucceeded,
			ActorID:   user.ID,
			Timestamp: time.Now(),
			Payload:   events.LoginPayload{Identifier: identifier},
		})
	}
	return token, exp, nil
}

// Register creates a new identity holding the Customer role.
func (s *AuthService) Register(ctx context.Context, name, username, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByUsernameOrEmail(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByUsernameOrEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, domain.RoleCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	if err := s.users.AddRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventIdentityRegistered,
			ActorID:   user.ID,
			Timestamp: time.Now(),
			Payload:   events.IdentityRegisteredPayload{UserID: user.ID, Username: username},
		})
	}
	return user, nil
}

// GetUser loads an identity by its stable id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// TokenManager exposes the underlying token manager for guard construction.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) loginFailed(ctx context.Context, identifier, reason string) error {
	if s.limiter != nil {
		s.limiter.RecordFailure(ctx, identifier)
	}
	observability.LoginAttemptsTotal.WithLabelValues("failure").Inc()
	s.publishLoginFailed(ctx, identifier, reason)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) publishLoginFailed(ctx context.Context, identifier, reason string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLoginFailed,
		Timestamp: time.Now(),
		Payload:   events.LoginPayload{Identifier: identifier, Reason: reason},
	})
}
