package message

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/converse-app/converse/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// FindByConversationID returns all messages in creation order. Paired
// messages created in the same transaction share a timestamp, so id
// breaks the tie and keeps the user message ahead of its reply.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindRecentByConversationID returns the newest messages, reversed into
// chronological order, for building generator history.
func (r *gormMessageRepository) FindRecentByConversationID(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	if limit <= 0 {
		return nil, nil
	}
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
