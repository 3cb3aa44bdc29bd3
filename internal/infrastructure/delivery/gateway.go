package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/acesso-api/internal/domain"
)

const (
	maxAttempts    = 3
	retryBaseDelay = time.Second
	batchSendDelay = 500 * time.Millisecond
)

// Local part, @, domain, dot, TLD. Deliberately loose; the provider is the
// real arbiter of what it accepts.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Gateway wraps a Provider with input validation, bounded retries and
// batch fan-out.
type Gateway struct {
	provider Provider
	sleep    func(time.Duration)
}

func NewGateway(provider Provider) *Gateway {
	return &Gateway{provider: provider, sleep: time.Sleep}
}

// SendCode delivers a one-time access code. Transport failures are retried
// up to maxAttempts with linearly increasing backoff (attempt × 1s);
// terminal provider errors short-circuit without any backoff sleep.
// Failures come back inside the result, never as a raised error; a failed
// send must not take the already-issued code down with it.
func (g *Gateway) SendCode(ctx context.Context, to Recipient, code string) domain.DeliveryResult {
	if !emailPattern.MatchString(to.Email) {
		return domain.DeliveryResult{Provider: g.provider.Name(), Error: "invalid email address"}
	}
	if len(code) != 6 {
		return domain.DeliveryResult{Provider: g.provider.Name(), Error: "code must be 6 digits"}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		msgID, err := g.provider.SendCode(ctx, to, code)
		if err == nil {
			return domain.DeliveryResult{
				Success:   true,
				Provider:  g.provider.Name(),
				MessageID: msgID,
				Attempts:  attempt,
			}
		}
		lastErr = err

		var pe *ProviderError
		if errors.As(err, &pe) && pe.Terminal() {
			return domain.DeliveryResult{
				Provider: g.provider.Name(),
				Error:    pe.Error(),
				Attempts: attempt,
			}
		}
		if attempt < maxAttempts {
			g.sleep(time.Duration(attempt) * retryBaseDelay)
		}
	}
	return domain.DeliveryResult{
		Provider: g.provider.Name(),
		Error:    fmt.Sprintf("all %d attempts failed: %v", maxAttempts, lastErr),
		Attempts: maxAttempts,
	}
}

// SendBatch notifies each subscriber about a new report, sequentially.
// Invalid emails count as failures without an attempt; one recipient's
// failure never aborts the rest. A fixed delay between sends keeps the
// provider's rate limiter happy; the last recipient gets no trailing delay.
func (g *Gateway) SendBatch(ctx context.Context, subs []domain.Subscriber, meta domain.ReportMeta) domain.BatchResult {
	result := domain.BatchResult{Total: len(subs)}
	for i, sub := range subs {
		if !emailPattern.MatchString(sub.Email) {
			result.Failed++
			result.Errors = append(result.Errors, domain.BatchError{Subscriber: sub.Name, Reason: "invalid email address"})
			continue
		}
		to := Recipient{Name: sub.Name, Email: sub.Email, Phone: sub.Phone}
		if _, err := g.provider.SendReport(ctx, to, meta); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, domain.BatchError{Subscriber: sub.Name, Reason: err.Error()})
			slog.Warn("report notification failed", "subscriber", sub.Name, "err", err)
			continue
		}
		result.Successful++
		if i < len(subs)-1 {
			g.sleep(batchSendDelay)
		}
	}
	return result
}
