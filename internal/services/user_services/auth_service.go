package user_services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/repository/user"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService is the authentication boundary: it issues credentials on
// register/login and resolves bearer tokens back to users on every
// protected operation.
type AuthService struct {
	userRepo user.UserRepository
	tokens   *TokenService
	tokenTTL time.Duration
	logger   Logger
}

func NewAuthService(userRepo user.UserRepository, tokens *TokenService, tokenTTL time.Duration, logger Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register creates a new active account. Fails with ErrDuplicateEmail
// when the email is already taken; the check is exact-match, consistent
// with how emails are stored.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if !emailRegex.MatchString(email) {
		return nil, errors.New("invalid email address")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if exists {
		s.logger.Warn("registration rejected, email already exists", "email", email)
		return nil, domain.ErrDuplicateEmail
	}

	newUser := &domain.User{Email: email, IsActive: true}
	if err := newUser.HashPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return created, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password both fail with ErrAuthenticationFailed so callers cannot
// tell which was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("authentication failed", "reason", "unknown_email")
		return nil, domain.ErrAuthenticationFailed
	}
	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("authentication failed", "reason", "bad_password", "user_id", account.ID)
		return nil, domain.ErrAuthenticationFailed
	}
	return account, nil
}

// Login authenticates and issues a bearer token whose subject is the
// user's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(account.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err, "user_id", account.ID)
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	s.logger.Info("login successful", "user_id", account.ID)
	return token, nil
}

// Resolve maps a bearer token to a user. An invalid or expired token and
// a subject that no longer exists are deliberately indistinguishable:
// both fail with ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	account, err := s.userRepo.FindByEmail(ctx, subject)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}
