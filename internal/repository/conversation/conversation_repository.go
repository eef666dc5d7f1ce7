package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/converse-app/converse/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	if conversation == nil || conversation.UserID == 0 {
		return nil, errors.New("conversation owner is required")
	}
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	var conversation domain.Conversation
	err := r.db.WithContext(ctx).First(&conversation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindByUserID lists a user's conversations, most recently updated first.
// Equal timestamps tie-break on id so the order is stable.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	var conversations []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// UpdateTitle overwrites the title in a single conditional UPDATE keyed
// on both conversation and owner, so a foreign conversation reports
// not-found without confirming it exists.
func (r *gormConversationRepository) UpdateTitle(ctx context.Context, conversationID, userID uint, title string) (*domain.Conversation, error) {
	if conversationID == 0 || userID == 0 {
		return nil, errors.New("invalid conversation ID or user ID")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConversationNotFound
	}
	return r.FindByID(ctx, conversationID)
}

// Delete removes a conversation and all of its messages. Ownership is
// verified inside the transaction before anything is touched.
func (r *gormConversationRepository) Delete(ctx context.Context, conversationID, userID uint) error {
	if conversationID == 0 || userID == 0 {
		return errors.New("invalid conversation ID or user ID")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation domain.Conversation
		err := tx.Where("id = ? AND user_id = ?", conversationID, userID).
			First(&conversation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConversationNotFound
			}
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Conversation{}, conversationID).Error
	})
}

// AppendExchange persists one user/assistant message pair, bumps the
// conversation's updated_at, and applies candidateTitle when the title is
// still the default. Everything happens in one transaction: the store
// never holds a user message without its reply, and the still-default
// check runs inside the transaction so concurrent first sends cannot both
// derive a title.
func (r *gormConversationRepository) AppendExchange(ctx context.Context, conversationID uint, userMsg, assistantMsg *domain.Message, candidateTitle string) error {
	if conversationID == 0 {
		return errors.New("invalid conversation ID")
	}
	if userMsg == nil || assistantMsg == nil {
		return errors.New("both sides of the exchange are required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation domain.Conversation
		if err := tx.First(&conversation, conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConversationNotFound
			}
			return err
		}

		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		if err := tx.Create(assistantMsg).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": time.Now().UTC()}
		if conversation.Title == domain.DefaultTitle && candidateTitle != "" {
			updates["title"] = candidateTitle
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			Updates(updates).Error
	})
}
