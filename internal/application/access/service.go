// Package access composes the directory, code store, delivery gateway and
// session issuer into the three user-facing gate operations.
package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/acesso-api/internal/codestore"
	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/infrastructure/delivery"
	"github.com/acesso-api/internal/pkg/cpf"
)

// Outcome is the closed set of results exposed to callers. UIs branch on
// these tags, never on free-text messages.
type Outcome string

const (
	OutcomeActive         Outcome = "ACTIVE"
	OutcomeNotFound       Outcome = "NOT_FOUND"
	OutcomeInactive       Outcome = "INACTIVE"
	OutcomeInvalidFormat  Outcome = "INVALID_FORMAT"
	OutcomeSystemError    Outcome = "SYSTEM_ERROR"
	OutcomeCodeIssued     Outcome = "CODE_ISSUED"
	OutcomeAlreadyExists  Outcome = "ALREADY_EXISTS"
	OutcomeSessionGranted Outcome = "SESSION_GRANTED"
	OutcomeInvalidCode    Outcome = "INVALID_CODE"
)

// SubscriberDisplay is the minimal subscriber data shown back after an
// eligibility check. Contact fields are masked.
type SubscriberDisplay struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EligibilityResult classifies a CPF into exactly one outcome.
type EligibilityResult struct {
	Outcome    Outcome            `json:"outcome"`
	Subscriber *SubscriberDisplay `json:"subscriber,omitempty"`
}

// CodeRequestResult reports code issuance plus the delivery attempt. A
// failed delivery does not invalidate the issued code: Code carries the
// value so support channels can still hand it out, but it is kept off the
// wire; anyone knowing only the CPF must not read the code from the
// response.
type CodeRequestResult struct {
	Outcome       Outcome                `json:"outcome"`
	Code          string                 `json:"-"`
	Delivery      *domain.DeliveryResult `json:"delivery,omitempty"`
	ExpiryMinutes int                    `json:"expiry_minutes,omitempty"`
}

// RedeemResult carries the minted session token on success. Failures never
// reveal whether the CPF or the code was wrong.
type RedeemResult struct {
	Outcome      Outcome `json:"outcome"`
	SessionToken string  `json:"session_token,omitempty"`
}

// Directory is the slice of the subscriber directory this service uses.
type Directory interface {
	FindByCPF(ctx context.Context, cpf string) (*domain.Subscriber, error)
}

// CodeSender dispatches an issued code to the subscriber.
type CodeSender interface {
	SendCode(ctx context.Context, to delivery.Recipient, code string) domain.DeliveryResult
}

// SessionIssuer mints session tokens for redeemed codes.
type SessionIssuer interface {
	Mint(cpf string) (string, error)
}

type Service interface {
	CheckEligibility(ctx context.Context, rawCPF string) EligibilityResult
	RequestCode(ctx context.Context, rawCPF string) CodeRequestResult
	RedeemCode(ctx context.Context, rawCPF, code string) RedeemResult
}

type service struct {
	directory Directory
	codes     codestore.Store
	sender    CodeSender
	issuer    SessionIssuer
}

func NewService(directory Directory, codes codestore.Store, sender CodeSender, issuer SessionIssuer) Service {
	return &service{
		directory: directory,
		codes:     codes,
		sender:    sender,
		issuer:    issuer,
	}
}

// CheckEligibility validates the CPF format and classifies the directory
// lookup. Directory transport errors fold into SYSTEM_ERROR so valid CPFs
// are never confused with infrastructure trouble.
func (s *service) CheckEligibility(ctx context.Context, rawCPF string) EligibilityResult {
	if !cpf.Valid(rawCPF) {
		return EligibilityResult{Outcome: OutcomeInvalidFormat}
	}

	sub, err := s.directory.FindByCPF(ctx, cpf.Normalize(rawCPF))
	switch classify(err) {
	case OutcomeNotFound:
		return EligibilityResult{Outcome: OutcomeNotFound}
	case OutcomeSystemError:
		slog.Error("directory lookup failed", "err", err)
		return EligibilityResult{Outcome: OutcomeSystemError}
	}

	if !sub.Active(time.Now()) {
		return EligibilityResult{Outcome: OutcomeInactive}
	}
	return EligibilityResult{
		Outcome: OutcomeActive,
		Subscriber: &SubscriberDisplay{
			Name:  sub.Name,
			Email: sub.MaskedEmail(),
			Phone: sub.MaskedPhone(),
		},
	}
}

// RequestCode re-verifies eligibility, issues a fresh one-time code and
// dispatches it. ALREADY_EXISTS when a live code is pending; the pending
// code and its expiry are left untouched.
func (s *service) RequestCode(ctx context.Context, rawCPF string) CodeRequestResult {
	if !cpf.Valid(rawCPF) {
		return CodeRequestResult{Outcome: OutcomeInvalidFormat}
	}
	clean := cpf.Normalize(rawCPF)

	sub, err := s.directory.FindByCPF(ctx, clean)
	switch classify(err) {
	case OutcomeNotFound:
		return CodeRequestResult{Outcome: OutcomeNotFound}
	case OutcomeSystemError:
		slog.Error("directory lookup failed", "err", err)
		return CodeRequestResult{Outcome: OutcomeSystemError}
	}
	if !sub.Active(time.Now()) {
		return CodeRequestResult{Outcome: OutcomeInactive}
	}

	code, err := s.codes.Generate(ctx, clean)
	if err != nil {
		if classify(err) == OutcomeAlreadyExists {
			return CodeRequestResult{Outcome: OutcomeAlreadyExists}
		}
		slog.Error("code generation failed", "err", err)
		return CodeRequestResult{Outcome: OutcomeSystemError}
	}

	to := delivery.Recipient{Name: sub.Name, Email: sub.Email, Phone: sub.Phone}
	result := s.sender.SendCode(ctx, to, code)
	if !result.Success {
		// The code stays redeemable; log it so support can hand it out.
		slog.Warn("code delivery failed", "provider", result.Provider, "err", result.Error,
			"cpf", clean, "code", code)
	}
	return CodeRequestResult{
		Outcome:       OutcomeCodeIssued,
		Code:          code,
		Delivery:      &result,
		ExpiryMinutes: int(domain.CodeTTL.Minutes()),
	}
}

// RedeemCode consumes a valid code and mints a session token. Unknown CPF,
// wrong code and expired code all read INVALID_CODE.
func (s *service) RedeemCode(ctx context.Context, rawCPF, code string) RedeemResult {
	if !cpf.Valid(rawCPF) {
		return RedeemResult{Outcome: OutcomeInvalidCode}
	}

	ok, err := s.codes.Validate(ctx, cpf.Normalize(rawCPF), code)
	if err != nil {
		slog.Error("code validation failed", "err", err)
		return RedeemResult{Outcome: OutcomeSystemError}
	}
	if !ok {
		return RedeemResult{Outcome: OutcomeInvalidCode}
	}

	token, err := s.issuer.Mint(cpf.Normalize(rawCPF))
	if err != nil {
		slog.Error("session mint failed", "err", err)
		return RedeemResult{Outcome: OutcomeSystemError}
	}
	return RedeemResult{Outcome: OutcomeSessionGranted, SessionToken: token}
}

// classify maps component errors onto the outcome taxonomy. A nil error
// classifies to the empty outcome.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return OutcomeAlreadyExists
	default:
		return OutcomeSystemError
	}
}
