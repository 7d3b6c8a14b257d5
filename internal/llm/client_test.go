package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/roastlab/gitroast/internal/errors"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(ProviderOpenAI, "sk-test", url)
	require.NoError(t, err)
	c.SetModel("gpt-4o-mini")
	return c
}

func TestGenerateText(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "your repo is a crime scene"}},
			},
		})
	})

	c := newTestClient(t, server.URL)
	reply, err := c.GenerateText(context.Background(), []Message{
		{Role: RoleSystem, Content: "roast"},
		{Role: RoleUser, Content: "do it"},
	})
	require.NoError(t, err)
	assert.Equal(t, "your repo is a crime scene", reply)
}

func TestGenerateTextRequiresModel(t *testing.T) {
	c, err := NewClient(ProviderGroq, "gsk-test", "")
	require.NoError(t, err)

	_, err = c.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestGenerateTextRequiresAPIKey(t *testing.T) {
	c, err := NewClient(ProviderGroq, "", "")
	require.NoError(t, err)
	c.SetModel("llama-3.3-70b-versatile")

	_, err = c.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestGenerateTextServerError(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	})

	c := newTestClient(t, server.URL)
	_, err := c.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)

	var pe *errs.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.Contains(t, pe.Detail, "overloaded")
}

func TestGenerateTextMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "empty choices", body: `{"choices":[]}`},
		{name: "missing message content", body: `{"choices":[{"message":{}}]}`},
		{name: "not json", body: `<!DOCTYPE html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			c := newTestClient(t, server.URL)
			_, err := c.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
			assert.ErrorIs(t, err, errs.ErrProvider)
		})
	}
}

func TestGenerateTextConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := newTestClient(t, server.URL)
	_, err := c.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, errs.ErrProvider)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Provider("OLLAMA"), "key", "")
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestEndpointSelection(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		baseURL  string
		want     string
	}{
		{
			name:     "openai default",
			provider: ProviderOpenAI,
			want:     "https://api.openai.com/v1/chat/completions",
		},
		{
			name:     "openai override honored",
			provider: ProviderOpenAI,
			baseURL:  "https://proxy.example.com/v1/chat/completions",
			want:     "https://proxy.example.com/v1/chat/completions",
		},
		{
			name:     "groq default",
			provider: ProviderGroq,
			want:     "https://api.groq.com/openai/v1/chat/completions",
		},
		{
			name:     "groq override ignored",
			provider: ProviderGroq,
			baseURL:  "https://proxy.example.com/v1/chat/completions",
			want:     "https://api.groq.com/openai/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.provider, "key", tt.baseURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.endpoint)
		})
	}
}

func TestConstructPromptIdempotent(t *testing.T) {
	c, err := NewClient(ProviderGroq, "key", "")
	require.NoError(t, err)

	a := c.ConstructPrompt("hello", RoleUser)
	b := c.ConstructPrompt("hello", RoleUser)
	assert.Equal(t, a, b)
	assert.Equal(t, Message{Role: "user", Content: "hello"}, a)

	sys := c.ConstructPrompt("persona", RoleSystem)
	assert.Equal(t, "system", sys.Role)
}

func TestConstructPromptDoesNotTouchModel(t *testing.T) {
	c, err := NewClient(ProviderOpenAI, "key", "")
	require.NoError(t, err)
	c.SetModel("gpt-4o-mini")

	c.ConstructPrompt("hello", RoleAssistant)
	assert.Equal(t, "gpt-4o-mini", c.Model())
}
