package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biorag/internal/domain"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("TEST_GEN_KEY", "gen-key")
	c, err := NewClient(Config{
		BaseURL:     url,
		APIKeyEnv:   "TEST_GEN_KEY",
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   256,
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_GEN_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_GEN_KEY"})
	assert.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	var captured request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gen-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := response{}
		resp.Choices = append(resp.Choices, struct {
			Message message `json:"message"`
		}{Message: message{Role: "assistant", Content: "Gene X regulates Y."}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "earlier question"},
		{Role: domain.RoleAssistant, Content: "earlier answer"},
	}
	answer, err := c.Generate(context.Background(), history, []string{"chunk one", "chunk two"}, "What is gene X?")
	require.NoError(t, err)
	assert.Equal(t, "Gene X regulates Y.", answer)

	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Equal(t, 256, captured.MaxTokens)
	// system + 2 history turns + final user message
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	final := captured.Messages[3]
	assert.Equal(t, "user", final.Role)
	assert.Contains(t, final.Content, "chunk one")
	assert.Contains(t, final.Content, "chunk two")
	assert.Contains(t, final.Content, "Question: What is gene X?")
}

func TestClient_GenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Generate(context.Background(), nil, nil, "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_GenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Generate(context.Background(), nil, nil, "q")
	assert.Error(t, err)
}
