package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderOpenAI       = "openai"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	maxErrorBodyBytes    = 2048
)

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint
// (OpenAI, OpenRouter, llama.cpp server, Ollama).
type OpenAIClient struct {
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
	temperature  float64
	httpClient   *http.Client
	log          *zap.Logger
}

func NewOpenAIClient(cfg Config, log *zap.Logger) *OpenAIClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		baseURL:      baseURL,
		apiKey:       cfg.APIKey,
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

func (c *OpenAIClient) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if c.systemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: c.systemPrompt})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: msgs, Temperature: c.temperature})
	if err != nil {
		return "", &CompletionError{Kind: KindMalformed, Provider: ProviderOpenAI, Err: err}
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", AsCompletionError(ProviderOpenAI, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", AsCompletionError(ProviderOpenAI, fmt.Errorf("completion endpoint unavailable: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		kind := KindTransport
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			kind = KindRejected
		}
		return "", &CompletionError{
			Kind:     kind,
			Provider: ProviderOpenAI,
			Err:      fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &CompletionError{Kind: KindMalformed, Provider: ProviderOpenAI, Err: err}
	}
	if out.Error != nil {
		return "", &CompletionError{Kind: KindRejected, Provider: ProviderOpenAI, Err: fmt.Errorf("%s", out.Error.Message)}
	}
	if len(out.Choices) == 0 {
		return "", &CompletionError{Kind: KindMalformed, Provider: ProviderOpenAI, Err: fmt.Errorf("response has no choices")}
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", &CompletionError{Kind: KindEmpty, Provider: ProviderOpenAI, Err: ErrEmptyCompletion}
	}

	c.log.Debug("openai completion",
		zap.String("model", c.model),
		zap.String("finish_reason", out.Choices[0].FinishReason),
		zap.Int("completion_len", len(text)),
	)
	return text, nil
}
