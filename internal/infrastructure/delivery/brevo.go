package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/acesso-api/internal/config"
	"github.com/acesso-api/internal/domain"
)

// Brevo sends transactional email through the Brevo (SendinBlue) HTTP API.
type Brevo struct {
	endpoint    string
	apiKey      string
	senderName  string
	senderEmail string
	client      *http.Client
}

func NewBrevo(cfg *config.Config) *Brevo {
	return &Brevo{
		endpoint:    cfg.BrevoEndpoint,
		apiKey:      cfg.BrevoAPIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *Brevo) Name() string { return "brevo" }

func (b *Brevo) SendCode(ctx context.Context, to Recipient, code string) (string, error) {
	subject, html, err := renderCodeEmail(to.Name, code)
	if err != nil {
		return "", err
	}
	return b.send(ctx, to, subject, html)
}

func (b *Brevo) SendReport(ctx context.Context, to Recipient, meta domain.ReportMeta) (string, error) {
	subject, html, err := renderReportEmail(to.Name, meta)
	if err != nil {
		return "", err
	}
	return b.send(ctx, to, subject, html)
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
	Message   string `json:"message"` // error description on failure
}

func (b *Brevo) send(ctx context.Context, to Recipient, subject, html string) (string, error) {
	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Name: b.senderName, Email: b.senderEmail},
		To:          []brevoAddress{{Name: to.Name, Email: to.Email}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return "", fmt.Errorf("marshal brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var decoded brevoResponse
	_ = json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{Status: resp.StatusCode, Msg: decoded.Message}
	}
	return decoded.MessageID, nil
}
