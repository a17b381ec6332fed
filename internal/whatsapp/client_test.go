package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/subscription-dashboard/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestClient(url string) *Client {
	return New(config.WhatsApp{
		WhatsAppAPIURL:  url,
		WhatsAppID:      "1101000001",
		WhatsAppToken:   "token123",
		WhatsAppTimeout: 2 * time.Second,
	}, newNoopLogger())
}

func TestClient_Send(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idMessage":"3EB0C767D097B7C7C030"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.Send(context.Background(), ChatID("22212345678"), "test message")

	require.NoError(t, err)
	assert.Equal(t, "/waInstance1101000001/sendMessage/token123", gotPath)
	assert.Equal(t, "22212345678@c.us", gotBody.ChatID)
	assert.Equal(t, "test message", gotBody.Message)
}

func TestClient_Send_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.Send(context.Background(), ChatID("22212345678"), "test message")

	assert.Error(t, err)
}

func TestClient_Send_Unreachable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	err := client.Send(context.Background(), ChatID("22212345678"), "test message")
	assert.Error(t, err)
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "79161234567@c.us", ChatID("79161234567"))
}
