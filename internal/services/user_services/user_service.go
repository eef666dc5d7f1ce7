package user_services

import (
	"context"
	"fmt"
	"time"

	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/repository/user"
)

// UserService is the composite service for user-facing account
// operations, built from the authentication service plus account
// lifecycle methods.
type UserService struct {
	*AuthService
	userRepo user.UserRepository
}

func NewUserService(userRepo user.UserRepository, jwtSecret string, tokenTTL time.Duration, logger Logger) *UserService {
	tokens := NewTokenService(jwtSecret)
	return &UserService{
		AuthService: NewAuthService(userRepo, tokens, tokenTTL, logger),
		userRepo:    userRepo,
	}
}

// GetByID fetches an account by its identifier.
func (s *UserService) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// DeleteAccount removes the user and cascades to every conversation and
// message the user owns.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.logger.Info("account deleted", "user_id", userID)
	return nil
}
