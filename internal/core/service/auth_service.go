package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const minPasswordLength = 6

type AuthService struct {
	users      port.UserRepository
	sessions   port.SessionStore
	logger     *zap.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users port.UserRepository, sessions port.SessionStore, logger *zap.Logger, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		logger:     logger.Named("auth"),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func validateRegistration(username, email, password string) error {
	switch {
	case username == "":
		return domain.NewValidationError("username", "is required")
	case email == "":
		return domain.NewValidationError("email", "is required")
	case password == "":
		return domain.NewValidationError("password", "is required")
	case len(password) < minPasswordLength:
		return domain.NewValidationError("password", "must be at least 6 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError("email", "is not a valid address")
	}
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, translate(s.logger, "hash password", err, domain.ErrInternal)
	}

	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}
	user.ID, err = s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, translate(s.logger, "create user", err, domain.ErrInternal)
	}
	return &user, nil
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := s.createUser(ctx, username, email, password, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login accepts a username or email and starts a session.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.Session, error) {
	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate(s.logger, "find user", err, domain.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:     uuid.NewString(),
		Identity:  domain.Identity{UserID: user.ID, Username: user.Username, Role: user.Role},
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.SaveSession(ctx, session.Token, session.Identity, s.sessionTTL); err != nil {
		return nil, translate(s.logger, "save session", err, domain.ErrInternal)
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return translate(s.logger, "delete session", s.sessions.DeleteSession(ctx, token), domain.ErrInternal)
}

// Authenticate resolves a session token to the identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	identity, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return domain.Identity{}, translate(s.logger, "get session", err, domain.ErrInternal)
	}
	if identity == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return *identity, nil
}

// EnsureAdmin creates the admin account unless a user with that username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.users.FindByLogin(ctx, username)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("admin bootstrap skipped, username belongs to a customer", zap.String("username", username))
		}
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return translate(s.logger, "find user", err, domain.ErrInternal)
	}

	user, err := s.createUser(ctx, username, email, password, domain.RoleAdmin)
	if err != nil {
		return err
	}
	s.logger.Info("admin account created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return nil
}
