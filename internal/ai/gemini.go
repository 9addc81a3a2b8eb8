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

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiProvider calls the Gemini generateContent API.
type GeminiProvider struct {
	keys    *APIKeyManager
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGeminiProvider constructs the provider. baseURL may be empty.
func NewGeminiProvider(keys *APIKeyManager, model, baseURL string, timeout time.Duration, logger *zap.Logger) *GeminiProvider {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		keys:    keys,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return ProviderGemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends the conversation and normalizes the candidate parts into
// the common {content:[{type,text}]} shape. Gemini uses "model" where the
// rest of the pipeline says "assistant".
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	key, err := p.keys.Next()
	if err != nil {
		return nil, err
	}

	payload := geminiRequest{Contents: make([]geminiContent, 0, len(req.Messages))}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	for _, msg := range req.Messages {
		role := msg.Role
		if role == "assistant" {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: msg.Content}}})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.model, key)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "gemini call failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		p.keys.Remove(key)
		p.logger.Warn("gemini key rejected, removed from rotation", zap.Int("remaining", p.keys.Len()))
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, "gemini rejected api key")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, fmt.Sprintf("gemini returned status %d", resp.StatusCode))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, "gemini returned no candidates")
	}

	blocks := make([]ContentBlock, 0, len(parsed.Candidates[0].Content.Parts))
	for _, part := range parsed.Candidates[0].Content.Parts {
		blocks = append(blocks, ContentBlock{Type: "text", Text: part.Text})
	}

	return &Response{Content: blocks, Provider: p.Name(), Model: p.model}, nil
}
