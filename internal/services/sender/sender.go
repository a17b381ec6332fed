// Package services содержит отправку почтовых напоминаний: сообщения из
// очереди превращаются в письма владельцам аккаунтов.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/avdeenko/subscription-dashboard/internal/lib/smtp"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// SenderService отправляет почтовые напоминания по SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{transport: transport, log: log}
}

// SendExpiringReminder обрабатывает сообщение очереди: разбирает кандидата
// и отправляет письмо на e-mail владеющего аккаунта.
func (s *SenderService) SendExpiringReminder(body []byte) error {
	const op = "sender.SendExpiringReminder"

	var candidate models.Candidate
	if err := json.Unmarshal(body, &candidate); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if candidate.Email == "" {
		// Письмо некому отправлять, сообщение подтверждается
		s.log.Warn("reminder without account email",
			slog.String("account_name", candidate.AccountName))
		return nil
	}

	subject := fmt.Sprintf("Подписка %s заканчивается %s", candidate.ServiceName, candidate.ExpirationDate)
	text := buildEmailBody(candidate)

	if err := s.sendEmail(candidate.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reminder email sent",
		slog.String("to", candidate.Email),
		slog.String("account_name", candidate.AccountName))
	return nil
}

func buildEmailBody(candidate models.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Здравствуйте!\r\n\r\n")
	fmt.Fprintf(&b, "Подписка %s (аккаунт %s) для %s заканчивается %s.\r\n",
		candidate.ServiceName, candidate.AccountName, candidate.UserName, candidate.ExpirationDate)
	fmt.Fprintf(&b, "\r\nПожалуйста, продлите её заранее.\r\n")
	return b.String()
}

func (s *SenderService) sendEmail(to, subject, text string) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			s.log.Warn("failed to quit smtp session", slog.Any("err", err))
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		from, to, mime.QEncoding.Encode("utf-8", subject), text)
	if _, err := w.Write([]byte(msg)); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			s.log.Warn("failed to close data writer", slog.Any("err", closeErr))
		}
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
