package domain

import (
	"strings"
	"time"
)

// Subscriber statuses as they appear in the directory spreadsheet.
// Matching is case-insensitive; the sheet is maintained by hand.
const (
	StatusActive   = "ativo"
	StatusActiveEN = "active"
)

// Subscriber is a row from the subscriber directory spreadsheet.
// The directory is read-only from this service's perspective: rows are
// fetched fresh on every eligibility check and never persisted locally.
type Subscriber struct {
	Name      string     `json:"name"`
	CPF       string     `json:"cpf"` // digits-only canonical form
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	RowIndex  int        `json:"-"` // 1-based sheet row, header included
}

// Active reports whether the subscription is usable right now: the status
// flag reads active and the end date, when present, has not passed.
func (s *Subscriber) Active(now time.Time) bool {
	status := strings.ToLower(strings.TrimSpace(s.Status))
	if status != StatusActive && status != StatusActiveEN {
		return false
	}
	if s.EndDate == nil {
		return true
	}
	return !now.Truncate(24 * time.Hour).After(*s.EndDate)
}

// MaskedEmail hides most of the local part: "antonio@example.com" -> "an*****@example.com".
func (s *Subscriber) MaskedEmail() string {
	at := strings.IndexByte(s.Email, '@')
	if at <= 0 {
		return ""
	}
	local, rest := s.Email[:at], s.Email[at:]
	visible := 2
	if len(local) < visible {
		visible = len(local)
	}
	return local[:visible] + strings.Repeat("*", len(local)-visible) + rest
}

// MaskedPhone keeps only the last four digits.
func (s *Subscriber) MaskedPhone() string {
	if len(s.Phone) < 4 {
		return ""
	}
	tail := s.Phone[len(s.Phone)-4:]
	return strings.Repeat("*", len(s.Phone)-4) + tail
}
