package user_services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("alice@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestIssueRequiresSubject(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Issue("", time.Hour)
	assert.Error(t, err)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	svc := NewTokenService("test-secret")
	other := NewTokenService("other-secret")

	foreign, err := other.Issue("alice@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"malformed", "aaa.bbb.ccc"},
		{"wrong secret", foreign},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateRejectsZeroTTL(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("alice@example.com", 0)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("alice@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
