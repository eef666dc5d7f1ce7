package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderKeywordReplies(t *testing.T) {
	p := NewMockProvider()
	ctx := context.Background()

	tests := []struct {
		prompt string
		want   string
	}{
		{"hello", "Hello! How can I assist you today?"},
		{"HELLO there", "Hello! How can I assist you today?"},
		{"how are you doing?", "I'm doing great, thank you for asking! How can I help you?"},
		{"bye", "Goodbye! Feel free to come back anytime."},
		{"I need help with something", "I'm here to help! Ask me anything."},
	}
	for _, tc := range tests {
		reply, err := p.GenerateReply(ctx, nil, tc.prompt)
		require.NoError(t, err)
		assert.Equal(t, tc.want, reply)
	}
}

func TestMockProviderEchoFallback(t *testing.T) {
	p := NewMockProvider()

	reply, err := p.GenerateReply(context.Background(), nil, "quantum entanglement")
	require.NoError(t, err)
	assert.Contains(t, reply, "quantum entanglement")
	assert.Contains(t, reply, "mock response")
}
