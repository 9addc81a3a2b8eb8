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

const anthropicDefaultBaseURL = "https://api.anthropic.com"

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	keys    *APIKeyManager
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewAnthropicProvider constructs the provider. baseURL may be empty.
func NewAnthropicProvider(keys *APIKeyManager, model, baseURL string, timeout time.Duration, logger *zap.Logger) *AnthropicProvider {
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicProvider{
		keys:    keys,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []ContentBlock `json:"content"`
	Model   string         `json:"model"`
}

// Complete sends the conversation and normalizes the reply. The Messages
// API already answers in {content:[{type,text}]} shape.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	key, err := p.keys.Next()
	if err != nil {
		return nil, err
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	body, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages:  req.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "anthropic call failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read anthropic response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		p.keys.Remove(key)
		p.logger.Warn("anthropic key rejected, removed from rotation", zap.Int("remaining", p.keys.Len()))
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, "anthropic rejected api key")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, fmt.Sprintf("anthropic returned status %d", resp.StatusCode))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode anthropic response: %w", err)
	}

	return &Response{Content: parsed.Content, Provider: p.Name(), Model: parsed.Model}, nil
}
