// Package codestore manages pending one-time access codes keyed by CPF.
package codestore

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Store is the access-code lifecycle contract. Implementations must keep
// the at-most-one-live-code-per-CPF invariant atomic: a concurrent
// HasActive/Generate pair must never issue two codes for the same CPF.
type Store interface {
	// HasActive reports whether an unexpired code exists for cpf,
	// evicting the entry as a side effect if it has expired.
	HasActive(ctx context.Context, cpf string) (bool, error)
	// Generate issues a fresh code for cpf. Returns domain.ErrConflict
	// (wrapped) when a live code already exists.
	Generate(ctx context.Context, cpf string) (string, error)
	// Validate checks the submitted code. On an exact match the entry is
	// consumed (single use) and true is returned. Expired entries are
	// evicted and fail validation.
	Validate(ctx context.Context, cpf, code string) (bool, error)
}

// NewCode draws a uniform 6-digit code in [100000, 999999]; the leading
// digit is never zero.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
