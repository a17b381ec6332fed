package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/subscription-dashboard/internal/lib/smtp"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

type fakeClient struct {
	from    string
	rcpt    []string
	data    bytes.Buffer
	rcptErr error
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (c *fakeClient) Mail(from string) error {
	c.from = from
	return nil
}

func (c *fakeClient) Rcpt(to string) error {
	if c.rcptErr != nil {
		return c.rcptErr
	}
	c.rcpt = append(c.rcpt, to)
	return nil
}

func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.data}, nil
}

func (c *fakeClient) Quit() error  { return nil }
func (c *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (smtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "noreply@example.com" }

func newTestService(transport smtp.TransportInterface) *SenderService {
	return NewSenderService(transport, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
}

func TestSendExpiringReminder(t *testing.T) {
	client := &fakeClient{}
	service := newTestService(&fakeTransport{client: client})

	body, err := json.Marshal(models.Candidate{
		Type:           "shared",
		AccountName:    "spotify-family",
		ServiceName:    "Spotify",
		UserName:       "Пётр Петров",
		ExpirationDate: "2026-09-05",
		Email:          "family@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, service.SendExpiringReminder(body))

	assert.Equal(t, "noreply@example.com", client.from)
	assert.Equal(t, []string{"family@example.com"}, client.rcpt)

	msg := client.data.String()
	assert.Contains(t, msg, "To: family@example.com")
	assert.Contains(t, msg, "Spotify")
	assert.Contains(t, msg, "2026-09-05")
}

func TestSendExpiringReminder_InvalidPayload(t *testing.T) {
	service := newTestService(&fakeTransport{client: &fakeClient{}})

	err := service.SendExpiringReminder([]byte("not json"))

	assert.Error(t, err)
}

func TestSendExpiringReminder_NoEmailIsAcked(t *testing.T) {
	client := &fakeClient{}
	service := newTestService(&fakeTransport{client: client})

	body, err := json.Marshal(models.Candidate{AccountName: "spotify-family"})
	require.NoError(t, err)

	require.NoError(t, service.SendExpiringReminder(body))
	assert.Empty(t, client.rcpt)
}

func TestSendExpiringReminder_SMTPFailure(t *testing.T) {
	service := newTestService(&fakeTransport{connectErr: errors.New("dial tcp: refused")})

	body, err := json.Marshal(models.Candidate{Email: "family@example.com"})
	require.NoError(t, err)

	assert.Error(t, service.SendExpiringReminder(body))
}
