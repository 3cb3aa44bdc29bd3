package delivery

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/acesso-api/internal/config"
	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/pkg/id"
)

// SMTP delivers email through a plain SMTP relay. Used in development
// (MailHog) and as a fallback when the Brevo API is not provisioned.
type SMTP struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewSMTP(cfg *config.Config) *SMTP {
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SenderEmail,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (s *SMTP) Name() string { return "smtp" }

func (s *SMTP) SendCode(_ context.Context, to Recipient, code string) (string, error) {
	subject, html, err := renderCodeEmail(to.Name, code)
	if err != nil {
		return "", err
	}
	return s.send(to.Email, subject, html)
}

func (s *SMTP) SendReport(_ context.Context, to Recipient, meta domain.ReportMeta) (string, error) {
	subject, html, err := renderReportEmail(to.Name, meta)
	if err != nil {
		return "", err
	}
	return s.send(to.Email, subject, html)
}

func (s *SMTP) send(to, subject, html string) (string, error) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, html)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	// SMTP gives us no provider message ID; mint one for the logs.
	return id.New(), nil
}
