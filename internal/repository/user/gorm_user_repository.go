package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/converse-app/converse/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.Email == "" {
		return nil, errors.New("user email is required")
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user)
}

// FindByEmail performs an exact, case-sensitive lookup, matching the
// collation under which emails are stored.
func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errors.New("email is required")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a user and everything the user owns. The cascade is
// explicit: collect the owned conversation IDs, delete their messages,
// then the conversations, then the user, all in one transaction.
func (r *gormUserRepository) Delete(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var conversationIDs []uint
		if err := tx.Model(&domain.Conversation{}).
			Where("user_id = ?", userID).
			Pluck("id", &conversationIDs).Error; err != nil {
			return err
		}

		if len(conversationIDs) > 0 {
			if err := tx.Where("conversation_id IN ?", conversationIDs).
				Delete(&domain.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", conversationIDs).
				Delete(&domain.Conversation{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&domain.User{}, userID).Error
	})
}

// handleFindError translates gorm's record-not-found into the package
// sentinel and passes everything else through.
func (r *gormUserRepository) handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return nil, err
}
