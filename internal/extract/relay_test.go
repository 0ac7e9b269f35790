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

func TestRelayClientExtract(t *testing.T) {
	var captured relayRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer relay-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{"transactions": [{"amount": 9.99, "note": "coffee", "category_name": "Food"}]}`))
	}))
	defer server.Close()

	client, err := newRelayClient(Config{Endpoint: server.URL, APIKey: "relay-key"})
	require.NoError(t, err)

	candidates, err := client.Extract(context.Background(), service.ExtractionRequest{
		AudioBase64: "QVVESU8=",
		Categories:  []string{"Food"},
		CurrentDate: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 9.99, candidates[0].Amount)

	assert.Equal(t, "QVVESU8=", captured.Audio)
	assert.Equal(t, []string{"Food"}, captured.Categories)
	assert.Equal(t, "2024-03-10", captured.CurrentDate)
}

func TestRelayClientErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model unavailable"}`))
	}))
	defer server.Close()

	client, err := newRelayClient(Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), service.ExtractionRequest{CurrentDate: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransportFailure)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestRelayClientMissingTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := newRelayClient(Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), service.ExtractionRequest{CurrentDate: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransportFailure)
}

func TestRelayClientRequiresEndpoint(t *testing.T) {
	_, err := newRelayClient(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
