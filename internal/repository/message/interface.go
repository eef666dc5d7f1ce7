package message

import (
	"context"

	"github.com/converse-app/converse/internal/domain"
)

// MessageRepository handles message reads. Writes go through the
// conversation repository's exchange append so pairs stay atomic.
type MessageRepository interface {
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
	FindRecentByConversationID(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
}
