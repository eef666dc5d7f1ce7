package conversation

import (
	"context"

	"github.com/converse-app/converse/internal/domain"
)

// ConversationRepository handles conversation data operations, including
// the transactional exchange append that keeps user and assistant
// messages paired.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error)
	UpdateTitle(ctx context.Context, conversationID, userID uint, title string) (*domain.Conversation, error)
	Delete(ctx context.Context, conversationID, userID uint) error
	AppendExchange(ctx context.Context, conversationID uint, userMsg, assistantMsg *domain.Message, candidateTitle string) error
}
