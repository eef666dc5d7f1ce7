package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/repository/conversation"
	"github.com/converse-app/converse/internal/repository/message"
)

// ConversationService drives the conversation lifecycle: creation,
// listing, the paired user/assistant message append, title updates and
// deletion. Every operation takes the resolved user ID and enforces
// ownership; a conversation that is absent or belongs to someone else
// fails with domain.ErrNotFound either way.
type ConversationService struct {
	conversationRepo conversation.ConversationRepository
	messageRepo      message.MessageRepository
	aiService        *AIService
	logger           Logger
}

func NewConversationService(
	conversationRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	aiService *AIService,
	logger Logger,
) (*ConversationService, error) {
	if conversationRepo == nil {
		return nil, errors.New("conversation repository is required")
	}
	if messageRepo == nil {
		return nil, errors.New("message repository is required")
	}
	if aiService == nil {
		return nil, errors.New("AI service is required")
	}
	return &ConversationService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		aiService:        aiService,
		logger:           logger,
	}, nil
}

// authorize loads a conversation and verifies ownership. Both failure
// modes collapse into ErrNotFound so existence never leaks across users.
func (s *ConversationService) authorize(ctx context.Context, userID, conversationID uint) (*domain.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil || conv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

// CreateConversation inserts a new empty conversation. An empty or blank
// title falls back to the default, which later marks the conversation as
// eligible for title derivation.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uint, title string) (*domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultTitle
	}
	conv := &domain.Conversation{UserID: userID, Title: title}
	created, err := s.conversationRepo.Create(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	s.logger.Info("conversation created", "conversation_id", created.ID, "user_id", userID)
	return created, nil
}

// ListConversations returns the user's conversations, most recently
// updated first.
func (s *ConversationService) ListConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	return s.conversationRepo.FindByUserID(ctx, userID)
}

// GetConversation returns a conversation with its messages in ascending
// creation order.
func (s *ConversationService) GetConversation(ctx context.Context, userID, conversationID uint) (*domain.Conversation, []domain.Message, error) {
	conv, err := s.authorize(ctx, userID, conversationID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messageRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return conv, messages, nil
}

// SendMessage appends a user message and its generated assistant reply
// as one atomic exchange. The generator runs before anything is written:
// if it fails, the send fails with ErrGeneratorUnavailable and the store
// is untouched. The exchange also bumps updated_at and, when the title
// is still the default, derives one from the user's text.
func (s *ConversationService) SendMessage(ctx context.Context, userID, conversationID uint, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}
	if _, err := s.authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	history, err := s.messageRepo.FindRecentByConversationID(ctx, conversationID, s.aiService.HistoryTurns())
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	reply, err := s.aiService.GenerateReply(ctx, history, content)
	if err != nil {
		s.logger.Error("generator failed, aborting send",
			"conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}

	userMsg := &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
	}
	assistantMsg := &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
	}

	err = s.conversationRepo.AppendExchange(ctx, conversationID, userMsg, assistantMsg, domain.DeriveTitle(content))
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to append exchange: %w", err)
	}

	s.logger.Info("exchange appended",
		"conversation_id", conversationID,
		"user_message_id", userMsg.ID,
		"assistant_message_id", assistantMsg.ID)
	return assistantMsg, nil
}

// UpdateTitle overwrites the conversation title. Any non-empty string is
// accepted as-is; no derivation applies here.
func (s *ConversationService) UpdateTitle(ctx context.Context, userID, conversationID uint, title string) (*domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title cannot be empty")
	}
	updated, err := s.conversationRepo.UpdateTitle(ctx, conversationID, userID, title)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update title: %w", err)
	}
	return updated, nil
}

// DeleteConversation removes the conversation and all of its messages.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
	err := s.conversationRepo.Delete(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	s.logger.Info("conversation deleted", "conversation_id", conversationID, "user_id", userID)
	return nil
}
