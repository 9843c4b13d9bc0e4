package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finguard/user-service/internal/auth"
	"github.com/finguard/user-service/internal/domain"
	"github.com/finguard/user-service/internal/events"
	"github.com/finguard/user-service/internal/repository"
	apperrors "github.com/finguard/user-service/pkg/util/errorutil"
)

// InvalidCredentialsMessage is the only message a failed login ever renders.
const InvalidCredentialsMessage = "invalid email or password"

// RegisterInput carries a validated registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token  string
	Claims auth.ClaimSet
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users         repository.UserRepository
	authenticator *auth.CredentialAuthenticator
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	Authenticator *auth.CredentialAuthenticator
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	BcryptCost    int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:         deps.UserRepo,
		authenticator: deps.Authenticator,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		bcryptCost:    deps.BcryptCost,
	}
}

// Register creates a new account. Accounts without roles get domain.DefaultRole.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	roles := normalizeRoles(in.Roles)
	if len(roles) == 0 {
		roles = []string{domain.DefaultRole}
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.Email, map[string]any{
		"user_id": user.ID,
		"roles":   user.Roles,
	})
	return user, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	var record *domain.IdentityRecord
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		record = user.Identity()
	case repository.IsNotFound(err):
	default:
		return nil, apperrors.NewInternalError(err)
	}

	token, claims, err := s.authenticator.Authenticate(record, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.publish(ctx, events.EventLoginFailed, email, nil)
			return nil, apperrors.NewUnauthorized(InvalidCredentialsMessage)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventLoginSucceeded, claims.Subject(), map[string]any{
		"expires_at": claims.ExpiresAt(),
	})
	return &LoginResult{Token: token, Claims: claims}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role != "" && !slices.Contains(out, role) {
			out = append(out, role)
		}
	}
	return out
}
