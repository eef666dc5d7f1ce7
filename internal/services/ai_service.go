package services

import (
	"context"
	"time"

	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/services/ai"
)

// AIService wraps a response provider with configuration and timeouts.
// It is the single seam between the orchestrator and whatever generates
// replies — a remote model or the built-in mock.
type AIService struct {
	provider ai.Provider
	timeout  time.Duration
	history  int
	logger   Logger
}

// NewAIService builds the service from configuration. An empty API key
// selects the mock provider so the system runs without credentials.
func NewAIService(cfg *ai.Config, logger Logger) (*AIService, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, ai.NewConfigError(err.Error())
	}

	var provider ai.Provider
	if cfg.APIKey == "" {
		logger.Warn("no generator API key configured, using mock provider")
		provider = ai.NewMockProvider()
	} else {
		provider = ai.NewOpenAIProvider(cfg)
	}

	return &AIService{
		provider: provider,
		timeout:  cfg.Timeout,
		history:  cfg.HistoryTurns,
		logger:   logger,
	}, nil
}

// NewAIServiceWithProvider wires an explicit provider; used by tests.
func NewAIServiceWithProvider(provider ai.Provider, timeout time.Duration, logger Logger) *AIService {
	return &AIService{provider: provider, timeout: timeout, history: 20, logger: logger}
}

// HistoryTurns reports how many prior messages the provider should see.
func (s *AIService) HistoryTurns() int { return s.history }

// GenerateReply asks the provider for a response to content, given the
// prior messages of the conversation in chronological order.
func (s *AIService) GenerateReply(ctx context.Context, history []domain.Message, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	turns := make([]ai.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, ai.Turn{Role: string(msg.Role), Content: msg.Content})
	}

	reply, err := s.provider.GenerateReply(ctx, turns, content)
	if err != nil {
		s.logger.Error("reply generation failed", "error", err)
		return "", err
	}
	return reply, nil
}
