package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProviderComplete(t *testing.T) {
	var gotVersion, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-test", req.Model)
		assert.Equal(t, "classifier", req.System)

		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []ContentBlock{{Type: "text", Text: "RENSEIGNEMENT"}},
			Model:   "claude-test",
		})
	}))
	defer server.Close()

	provider := NewAnthropicProvider(NewAPIKeyManager([]string{"key-1"}), "claude-test", server.URL, time.Second, nil)
	resp, err := provider.Complete(context.Background(), Request{
		System:   "classifier",
		Messages: []Message{{Role: "user", Content: "quels sont les horaires ?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "RENSEIGNEMENT", resp.Text())
	assert.Equal(t, ProviderAnthropic, resp.Provider)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "key-1", gotKey)
}

func TestAnthropicProviderRemovesRejectedKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	keys := NewAPIKeyManager([]string{"bad-key"})
	provider := NewAnthropicProvider(keys, "claude-test", server.URL, time.Second, nil)

	_, err := provider.Complete(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.Equal(t, 0, keys.Len())
}

func TestOpenRouterProviderComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		var req openRouterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// system prompt travels as the first chat message
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "test-model",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "bonjour"}},
			},
		})
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(NewAPIKeyManager([]string{"key-1"}), "test-model", server.URL, time.Second, nil)
	resp, err := provider.Complete(context.Background(), Request{
		System:   "concierge",
		Messages: []Message{{Role: "user", Content: "salut"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", resp.Text())
}

func TestGeminiProviderComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "key=key-1")
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		// assistant turns are renamed to the model role
		require.Len(t, req.Contents, 2)
		assert.Equal(t, "model", req.Contents[1].Role)

		_ = json.NewEncoder(w).Encode(geminiResponse{Candidates: []struct {
			Content geminiContent `json:"content"`
		}{{Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: "reponse"}}}}}})
	}))
	defer server.Close()

	provider := NewGeminiProvider(NewAPIKeyManager([]string{"key-1"}), "gemini-test", server.URL, time.Second, nil)
	resp, err := provider.Complete(context.Background(), Request{
		System: "concierge",
		Messages: []Message{
			{Role: "user", Content: "salut"},
			{Role: "assistant", Content: "bonjour"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "reponse", resp.Text())
}
