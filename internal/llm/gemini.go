package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderGemini     = "gemini"
	defaultGeminiModel = "gemini-1.5-flash"
)

// GeminiClient implements Completer on top of the Google GenAI SDK.
type GeminiClient struct {
	client       *genai.Client
	model        string
	systemPrompt string
	temperature  *float32
	log          *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg Config, log *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &GeminiClient{
		client:       client,
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		log:          log,
	}
	if cfg.Temperature > 0 {
		g.temperature = genai.Ptr(float32(cfg.Temperature))
	}
	return g, nil
}

func (g *GeminiClient) Model() string {
	return g.model
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: g.temperature,
	}
	if g.systemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(g.systemPrompt, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
			return "", &CompletionError{Kind: KindRejected, Provider: ProviderGemini, Err: err}
		}
		return "", AsCompletionError(ProviderGemini, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &CompletionError{
			Kind:     KindRejected,
			Provider: ProviderGemini,
			Err:      fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &CompletionError{Kind: KindEmpty, Provider: ProviderGemini, Err: ErrEmptyCompletion}
	}

	g.log.Debug("gemini completion",
		zap.String("model", g.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("completion_len", len(text)),
	)
	return text, nil
}
