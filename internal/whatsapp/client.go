// Package whatsapp реализует клиента GREEN-API для отправки сообщений
// WhatsApp. Отправка выполняется без повторных попыток: доставка
// подтверждается только кодом ответа API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/avdeenko/subscription-dashboard/internal/config"
)

// ChatSuffix суффикс идентификатора личного чата WhatsApp.
const ChatSuffix = "@c.us"

// Client HTTP-клиент GREEN-API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	instanceID string
	token      string
	log        *slog.Logger
}

// New создает новый экземпляр Client.
func New(cfg config.WhatsApp, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.WhatsAppTimeout},
		apiURL:     cfg.WhatsAppAPIURL,
		instanceID: cfg.WhatsAppID,
		token:      cfg.WhatsAppToken,
		log:        log,
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	IDMessage string `json:"idMessage"`
}

// ChatID строит идентификатор чата из нормализованного номера телефона.
func ChatID(digits string) string {
	return digits + ChatSuffix
}

// Send отправляет текстовое сообщение в указанный чат.
func (c *Client) Send(ctx context.Context, chatID, message string) error {
	const op = "whatsapp.Send"

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Message: message})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/waInstance%s/sendMessage/%s", c.apiURL, c.instanceID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, payload)
	}

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Сообщение принято, тело ответа не критично
		c.log.Warn("failed to decode send response", slog.Any("err", err))
		return nil
	}
	c.log.Info("whatsapp message sent", slog.String("id_message", result.IDMessage))
	return nil
}
