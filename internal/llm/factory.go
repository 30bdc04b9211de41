package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config selects and configures a completion provider.
type Config struct {
	Provider     string
	APIKey       string
	Model        string
	BaseURL      string
	SystemPrompt string
	Temperature  float64
	Timeout      time.Duration
}

// Client is a Completer that can report which model it talks to.
type Client interface {
	Completer
	Model() string
}

func New(ctx context.Context, cfg Config, log *zap.Logger) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, cfg, log)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
