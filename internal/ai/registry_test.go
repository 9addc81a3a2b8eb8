package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	calls int
	reply string
	err   error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Content: []ContentBlock{{Type: "text", Text: s.reply}}, Provider: s.name}, nil
}

func TestRegistryRoutesToRequestedProvider(t *testing.T) {
	registry := NewRegistry(ProviderAnthropic, nil)
	anthropic := &stubProvider{name: ProviderAnthropic, reply: "a"}
	gemini := &stubProvider{name: ProviderGemini, reply: "g"}
	registry.Register(anthropic)
	registry.Register(gemini)

	resp, err := registry.Complete(context.Background(), ProviderGemini, Request{})
	require.NoError(t, err)
	assert.Equal(t, "g", resp.Text())
	assert.Equal(t, 1, gemini.calls)
	assert.Equal(t, 0, anthropic.calls)
}

func TestRegistryFallsBackToDefault(t *testing.T) {
	registry := NewRegistry(ProviderAnthropic, nil)
	anthropic := &stubProvider{name: ProviderAnthropic, reply: "a"}
	registry.Register(anthropic)

	resp, err := registry.Complete(context.Background(), "unknown", Request{})
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Text())
	assert.Equal(t, 1, anthropic.calls)
}

func TestRegistryNoProviders(t *testing.T) {
	registry := NewRegistry(ProviderAnthropic, nil)
	_, err := registry.Complete(context.Background(), "", Request{})
	require.Error(t, err)
}

func TestResponseTextConcatenation(t *testing.T) {
	resp := &Response{Content: []ContentBlock{
		{Type: "text", Text: "bonjour "},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "le monde"},
	}}
	assert.Equal(t, "bonjour le monde", resp.Text())
}
