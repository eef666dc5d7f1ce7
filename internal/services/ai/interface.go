package ai

import "context"

// Turn is one prior utterance handed to the provider as context.
type Turn struct {
	Role    string
	Content string
}

// Provider generates a reply from a user message plus optional history.
// Providers are pure with respect to application state: they never touch
// the store and carry no per-conversation state of their own.
type Provider interface {
	GenerateReply(ctx context.Context, history []Turn, prompt string) (string, error)
}
