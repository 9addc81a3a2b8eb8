package ai

import "context"

// Provider names accepted in configuration.
const (
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Message is one turn of a conversation sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the provider-agnostic completion request.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// ContentBlock is one element of the normalized response content.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the normalized completion result. Every provider reply is
// reshaped into {content: [{type, text}]} before the rest of the
// pipeline consumes it.
type Response struct {
	Content  []ContentBlock `json:"content"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
}

// Text concatenates the text blocks of the response.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var out string
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// Provider generates completions for a conversation.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}
