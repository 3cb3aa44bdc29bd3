package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/acesso-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the session token payload. The CPF is the only identity the
// system tracks; there is no server-side session record, so a minted token
// stays valid for its full lifetime regardless of later directory changes.
type Claims struct {
	CPF string `json:"cpf"`
	jwt.RegisteredClaims
}

// Provider mints and verifies HS256 session tokens. The HMAC signature
// makes tokens tamper-evident; the payload itself is not encrypted.
type Provider struct {
	secret []byte
	ttl    time.Duration
}

func NewProvider(secret string, ttl time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &Provider{secret: []byte(secret), ttl: ttl}, nil
}

// Mint issues a session token for the given CPF, expiring after the
// configured TTL.
func (p *Provider) Mint(cpf string) (string, error) {
	now := time.Now()
	claims := Claims{
		CPF: cpf,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and checks the token. Expired tokens surface as
// domain.ErrExpired; anything else malformed or forged surfaces as
// domain.ErrUnauthorized.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("session expired: %w", domain.ErrExpired)
		}
		return nil, fmt.Errorf("malformed session token: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}
