package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk_MissingAPIKey(t *testing.T) {
	client := openai.NewOpenaiClient()

	resp, err := client.Ask(context.Background(), &providers.Config{Model: "gpt-4o-mini"}, "test prompt")

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestAsk_MissingModel(t *testing.T) {
	client := openai.NewOpenaiClient()

	resp, err := client.Ask(context.Background(), &providers.Config{
		Credentials: providers.Credentials{ApiKey: "test-api-key"},
	}, "test prompt")

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")
}

func TestAsk_SendsMessagesAndReadsCompletion(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1760000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"decision\":\"APPROVE\",\"confidence\":0.9}"}}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 10, "total_tokens": 50}
		}`))
	}))
	defer srv.Close()

	client := openai.NewOpenaiClient()
	resp, err := client.Ask(context.Background(), &providers.Config{
		Credentials:  providers.Credentials{ApiKey: "test-api-key"},
		Model:        "gpt-4o-mini",
		Endpoint:     srv.URL,
		SystemPrompt: "You are a moderator.",
	}, "classify this")

	require.NoError(t, err)
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, `{"decision":"APPROVE","confidence":0.9}`, resp.Response)
	assert.Equal(t, 50, resp.Usage.TotalTokens)

	messages, ok := received["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)
	assert.Equal(t, "gpt-4o-mini", received["model"])
}
