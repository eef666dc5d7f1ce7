package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider answers from a small keyword table. It stands in for a
// real language model in development and tests.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

var cannedReplies = map[string]string{
	"hello":       "Hello! How can I assist you today?",
	"hi":          "Hi there! What can I help you with?",
	"how are you": "I'm doing great, thank you for asking! How can I help you?",
	"bye":         "Goodbye! Feel free to come back anytime.",
	"help":        "I'm here to help! Ask me anything.",
}

func (p *MockProvider) GenerateReply(_ context.Context, _ []Turn, prompt string) (string, error) {
	lowered := strings.ToLower(strings.TrimSpace(prompt))
	for keyword, reply := range cannedReplies {
		if strings.Contains(lowered, keyword) {
			return reply, nil
		}
	}
	return fmt.Sprintf("I understand you said: '%s'. This is a mock response. In production, this would be replaced with an actual AI model.", prompt), nil
}
