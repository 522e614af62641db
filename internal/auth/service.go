package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (User, error)
	Get(ctx context.Context, id int64) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// Tokens issues and revokes bearer tokens.
type Tokens interface {
	Issue(ctx context.Context, user User) (Token, error)
	Resolve(ctx context.Context, value string) (Token, error)
	Revoke(ctx context.Context, value string) error
}

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
	Action(ctx context.Context, module string, action audit.Action, ref audit.EntityRef, note string) error
}

const auditModule = "auth"

// Service authenticates users and manages accounts.
type Service struct {
	users  UserStore
	tokens Tokens
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds Service.
func NewService(logger *slog.Logger, users UserStore, tokens Tokens, auditPort AuditPort) *Service {
	return &Service{users: users, tokens: tokens, audit: auditPort, logger: logger}
}

// Login verifies credentials and issues a token. Unknown usernames, wrong
// passwords, and disabled accounts all return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (Token, User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Token{}, User{}, ErrInvalidCredentials
		}
		return Token{}, User{}, err
	}
	if !user.IsActive {
		return Token{}, User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Token{}, User{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return Token{}, User{}, err
	}
	s.logger.Info("login", slog.String("username", user.Username))
	if s.audit != nil {
		_ = s.audit.Action(ctx, auditModule, audit.ActionLogin, user.EntityRef(), "")
	}
	return token, user, nil
}

// Logout revokes a token.
func (s *Service) Logout(ctx context.Context, tokenValue string) error {
	token, err := s.tokens.Resolve(ctx, tokenValue)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, tokenValue); err != nil {
		return err
	}
	s.logger.Info("logout", slog.String("username", token.Username))
	if s.audit != nil {
		ref := audit.EntityRef{Type: audit.EntityUser, ID: token.UserID}
		_ = s.audit.Action(ctx, auditModule, audit.ActionLogout, ref, "")
	}
	return nil
}

// Resolve validates a bearer token.
func (s *Service) Resolve(ctx context.Context, tokenValue string) (Token, error) {
	return s.tokens.Resolve(ctx, tokenValue)
}

// CreateUser registers an operator account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, username, fullName, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, errors.New("auth: username is required")
	}
	if len(password) < 8 {
		return User{}, errors.New("auth: password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	created, err := s.users.Create(ctx, User{
		Username:     username,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return User{}, err
	}
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, created, "user created")
	}
	return created, nil
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// SetActive enables or disables an account.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	return s.users.SetActive(ctx, id, active)
}
