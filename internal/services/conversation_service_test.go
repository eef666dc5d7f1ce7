package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/converse-app/converse/internal/domain"
	conversationrepo "github.com/converse-app/converse/internal/repository/conversation"
	messagerepo "github.com/converse-app/converse/internal/repository/message"
	"github.com/converse-app/converse/internal/services/ai"
)

type failingProvider struct{}

func (failingProvider) GenerateReply(context.Context, []ai.Turn, string) (string, error) {
	return "", errors.New("upstream unavailable")
}

type testEnv struct {
	svc         *ConversationService
	convRepo    conversationrepo.ConversationRepository
	messageRepo messagerepo.MessageRepository
}

func newTestEnv(t *testing.T, provider ai.Provider) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}))

	convRepo := conversationrepo.NewConversationRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)
	if provider == nil {
		provider = ai.NewMockProvider()
	}
	aiService := NewAIServiceWithProvider(provider, time.Second, &NoOpLogger{})

	svc, err := NewConversationService(convRepo, messageRepo, aiService, &NoOpLogger{})
	require.NoError(t, err)
	return &testEnv{svc: svc, convRepo: convRepo, messageRepo: messageRepo}
}

func TestCreateConversationTitleDefaults(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, conv.Title)

	named, err := env.svc.CreateConversation(ctx, 1, "Trip planning")
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", named.Title)
}

func TestSendMessageAppendsPairInOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	for _, content := range []string{"first question", "second question", "third question"} {
		reply, err := env.svc.SendMessage(ctx, 1, conv.ID, content)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAssistant, reply.Role)
		assert.NotEmpty(t, reply.Content)
	}

	_, messages, err := env.svc.GetConversation(ctx, 1, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 6)
	for i, msg := range messages {
		if i%2 == 0 {
			assert.Equal(t, domain.RoleUser, msg.Role)
		} else {
			assert.Equal(t, domain.RoleAssistant, msg.Role)
		}
	}
	assert.Equal(t, "first question", messages[0].Content)
	assert.Equal(t, "second question", messages[2].Content)
	assert.Equal(t, "third question", messages[4].Content)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	_, err = env.svc.SendMessage(ctx, 1, conv.ID, "   ")
	assert.Error(t, err)
}

func TestTitleDerivedFromFirstMessage(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	t.Run("short content used verbatim", func(t *testing.T) {
		conv, err := env.svc.CreateConversation(ctx, 1, "")
		require.NoError(t, err)

		_, err = env.svc.SendMessage(ctx, 1, conv.ID, "hi")
		require.NoError(t, err)

		got, _, err := env.svc.GetConversation(ctx, 1, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, "hi", got.Title)
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		conv, err := env.svc.CreateConversation(ctx, 1, "")
		require.NoError(t, err)

		long := strings.Repeat("a", 60)
		_, err = env.svc.SendMessage(ctx, 1, conv.ID, long)
		require.NoError(t, err)

		got, _, err := env.svc.GetConversation(ctx, 1, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("a", 50)+"...", got.Title)
	})

	t.Run("second send leaves title alone", func(t *testing.T) {
		conv, err := env.svc.CreateConversation(ctx, 1, "")
		require.NoError(t, err)

		_, err = env.svc.SendMessage(ctx, 1, conv.ID, "hi")
		require.NoError(t, err)
		_, err = env.svc.SendMessage(ctx, 1, conv.ID, "something else entirely")
		require.NoError(t, err)

		got, _, err := env.svc.GetConversation(ctx, 1, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, "hi", got.Title)
	})

	t.Run("caller-chosen title never overwritten", func(t *testing.T) {
		conv, err := env.svc.CreateConversation(ctx, 1, "My title")
		require.NoError(t, err)

		_, err = env.svc.SendMessage(ctx, 1, conv.ID, "hi")
		require.NoError(t, err)

		got, _, err := env.svc.GetConversation(ctx, 1, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, "My title", got.Title)
	})
}

func TestSendMessageGeneratorFailureWritesNothing(t *testing.T) {
	env := newTestEnv(t, failingProvider{})
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	_, err = env.svc.SendMessage(ctx, 1, conv.ID, "hi")
	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)

	count, err := env.messageRepo.CountByConversationID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	got, _, err := env.svc.GetConversation(ctx, 1, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, got.Title)
}

func TestCrossUserAccessLooksLikeNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	_, _, err = env.svc.GetConversation(ctx, 2, conv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.SendMessage(ctx, 2, conv.ID, "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.UpdateTitle(ctx, 2, conv.ID, "hijacked")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.svc.DeleteConversation(ctx, 2, conv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, _, err := env.svc.GetConversation(ctx, 1, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, got.Title)
}

func TestDeleteConversationCascades(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)
	_, err = env.svc.SendMessage(ctx, 1, conv.ID, "hi")
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteConversation(ctx, 1, conv.ID))

	_, _, err = env.svc.GetConversation(ctx, 1, conv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := env.messageRepo.CountByConversationID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListConversationsOrderedByActivity(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.svc.CreateConversation(ctx, 1, "first")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := env.svc.CreateConversation(ctx, 1, "second")
	require.NoError(t, err)

	list, err := env.svc.ListConversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	time.Sleep(5 * time.Millisecond)
	_, err = env.svc.SendMessage(ctx, 1, first.ID, "wake up")
	require.NoError(t, err)

	list, err = env.svc.ListConversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestUpdateTitle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	conv, err := env.svc.CreateConversation(ctx, 1, "")
	require.NoError(t, err)

	updated, err := env.svc.UpdateTitle(ctx, 1, conv.ID, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	_, err = env.svc.UpdateTitle(ctx, 1, conv.ID, "  ")
	assert.Error(t, err)
}
