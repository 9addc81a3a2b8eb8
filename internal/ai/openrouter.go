package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

const openRouterDefaultBaseURL = "https://openrouter.ai"

// OpenRouterProvider calls the OpenRouter chat completions API.
type OpenRouterProvider struct {
	keys    *APIKeyManager
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewOpenRouterProvider constructs the provider. baseURL may be empty.
func NewOpenRouterProvider(keys *APIKeyManager, model, baseURL string, timeout time.Duration, logger *zap.Logger) *OpenRouterProvider {
	if baseURL == "" {
		baseURL = openRouterDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenRouterProvider{
		keys:    keys,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name implements Provider.
func (p *OpenRouterProvider) Name() string { return ProviderOpenRouter }

type openRouterRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type openRouterResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
}

// Complete sends the conversation in OpenAI chat shape and normalizes the
// first choice into {content:[{type,text}]}.
func (p *OpenRouterProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	key, err := p.keys.Next()
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(openRouterRequest{Model: p.model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshal openrouter request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build openrouter request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "openrouter call failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openrouter response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		p.keys.Remove(key)
		p.logger.Warn("openrouter key rejected, removed from rotation", zap.Int("remaining", p.keys.Len()))
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, "openrouter rejected api key")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, fmt.Sprintf("openrouter returned status %d", resp.StatusCode))
	}

	var parsed openRouterResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, "openrouter returned no choices")
	}

	model := parsed.Model
	if model == "" {
		model = p.model
	}
	return &Response{
		Content:  []ContentBlock{{Type: "text", Text: parsed.Choices[0].Message.Content}},
		Provider: p.Name(),
		Model:    model,
	}, nil
}
