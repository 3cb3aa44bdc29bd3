// Package delivery sends access codes and report notifications to
// subscribers through a single provider-agnostic gateway. Provider choice
// (Brevo HTTP API, plain SMTP, SNS SMS) is configuration, not a code path.
package delivery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/acesso-api/internal/domain"
)

// Recipient identifies where a message goes. Email is always required;
// Phone is only used by the SMS provider.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Provider is one concrete delivery channel.
type Provider interface {
	Name() string
	SendCode(ctx context.Context, to Recipient, code string) (messageID string, err error)
	SendReport(ctx context.Context, to Recipient, meta domain.ReportMeta) (messageID string, err error)
}

// ProviderError carries the upstream HTTP status so the gateway can decide
// whether retrying makes sense.
type ProviderError struct {
	Status int
	Msg    string
}

func (e *ProviderError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("provider error (status %d)", e.Status)
}

// Terminal reports whether retrying cannot succeed: a missing endpoint
// (404) or a wrong method (405) will not heal between attempts.
func (e *ProviderError) Terminal() bool {
	return e.Status == http.StatusNotFound || e.Status == http.StatusMethodNotAllowed
}
