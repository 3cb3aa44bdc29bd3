package codestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acesso-api/internal/domain"
)

// Memory is the process-local Store. Suitable for single-instance
// deployments; run multiple instances against the Dynamo store instead,
// or the one-live-code invariant only holds per instance.
type Memory struct {
	mu    sync.Mutex
	codes map[string]*domain.AccessCode
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		codes: make(map[string]*domain.AccessCode),
		now:   time.Now,
	}
}

func (m *Memory) HasActive(_ context.Context, cpf string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasActiveLocked(cpf), nil
}

// hasActiveLocked evicts an expired entry as a side effect. Caller holds mu.
func (m *Memory) hasActiveLocked(cpf string) bool {
	entry, ok := m.codes[cpf]
	if !ok {
		return false
	}
	if entry.Expired(m.now()) {
		delete(m.codes, cpf)
		return false
	}
	return true
}

func (m *Memory) Generate(_ context.Context, cpf string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check-and-insert under one lock so concurrent requests for the same
	// CPF cannot both get a code.
	if m.hasActiveLocked(cpf) {
		return "", fmt.Errorf("active code already pending for this CPF: %w", domain.ErrConflict)
	}

	code, err := NewCode()
	if err != nil {
		return "", err
	}
	now := m.now()
	m.codes[cpf] = &domain.AccessCode{
		CPF:       cpf,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.CodeTTL).Unix(),
	}
	m.sweepLocked(now)
	return code, nil
}

func (m *Memory) Validate(_ context.Context, cpf, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.codes[cpf]
	if !ok {
		return false, nil
	}
	if entry.Expired(m.now()) {
		delete(m.codes, cpf)
		return false, nil
	}
	if entry.Code != code {
		return false, nil
	}
	delete(m.codes, cpf) // single use
	return true, nil
}

// sweepLocked drops every expired entry store-wide. Caller holds mu.
func (m *Memory) sweepLocked(now time.Time) {
	for cpf, entry := range m.codes {
		if entry.Expired(now) {
			delete(m.codes, cpf)
		}
	}
}
