package domain

import "time"

// CodeTTL is how long an access code stays redeemable after issuance.
const CodeTTL = 30 * time.Minute

// AccessCode is a pending one-time access code for a subscriber.
// At most one live code exists per CPF at any time; a code is destroyed on
// successful validation (single use) or evicted once expired.
// ExpiresAt doubles as the DynamoDB TTL attribute when the store is
// externalized.
type AccessCode struct {
	CPF       string    `json:"cpf" dynamodbav:"cpf"`
	Code      string    `json:"code" dynamodbav:"code"`
	IssuedAt  time.Time `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
}

// Expired reports whether the code's deadline has passed.
func (c *AccessCode) Expired(now time.Time) bool {
	return now.Unix() > c.ExpiresAt
}
