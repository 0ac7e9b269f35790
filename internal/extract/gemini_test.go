package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/service"
)

func geminiBody(text string) string {
	body := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
					"role":  "model",
				},
				"finishReason": "STOP",
			},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestGeminiClientExtract(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiBody("```json\n[{\"amount\": 42, \"note\": \"groceries\", \"category_name\": \"Food\"}]\n```")))
	}))
	defer server.Close()

	client, err := newGeminiClient(Config{APIKey: "test-key", Endpoint: server.URL})
	require.NoError(t, err)

	candidates, err := client.Extract(context.Background(), service.ExtractionRequest{
		AudioBase64: "QVVESU8=",
		Categories:  []string{"Food", "Transport"},
		CurrentDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, float64(42), candidates[0].Amount)
	assert.Equal(t, "Food", candidates[0].CategoryName)

	// The request carries the prompt and the clip as inline data.
	contents := captured["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].(map[string]any)["text"], "Available categories: Food, Transport")
	inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
	assert.Equal(t, "audio/m4a", inline["mime_type"])
	assert.Equal(t, "QVVESU8=", inline["data"])
}

func TestGeminiClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(Config{APIKey: "test-key", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), service.ExtractionRequest{CurrentDate: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransportFailure)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiClientNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(Config{APIKey: "test-key", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), service.ExtractionRequest{CurrentDate: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransportFailure)
}

func TestGeminiClientRequiresAPIKey(t *testing.T) {
	_, err := newGeminiClient(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestNewClientProviders(t *testing.T) {
	client, err := NewClient(Config{Provider: "gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &geminiClient{}, client)

	client, err = NewClient(Config{Provider: "", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &geminiClient{}, client)

	client, err = NewClient(Config{Provider: "relay", Endpoint: "https://example.com/extract"})
	require.NoError(t, err)
	assert.IsType(t, &relayClient{}, client)

	_, err = NewClient(Config{Provider: "whisper"})
	require.Error(t, err)
}
