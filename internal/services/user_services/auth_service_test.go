package user_services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/converse-app/converse/internal/domain"
	userrepo "github.com/converse-app/converse/internal/repository/user"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}))
	return NewUserService(userrepo.NewGormUserRepository(db), "test-secret", time.Hour, noopLogger{})
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, account.ID)
	assert.Equal(t, "a@x.com", account.Email)
	assert.True(t, account.IsActive)
	assert.NotEqual(t, "pw1", account.Password)

	got, err := svc.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "pw1")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "a@x.com", "")
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "different")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "a@x.com", "wrong")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@x.com", "pw1")

	assert.ErrorIs(t, wrongPassword, domain.ErrAuthenticationFailed)
	assert.ErrorIs(t, unknownEmail, domain.ErrAuthenticationFailed)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginAndResolve(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resolved.ID)
}

func TestResolveRejectsInvalidTokens(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	expired, err := svc.tokens.Issue("a@x.com", 0)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolveAfterAccountDeleted(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, account.ID))

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
