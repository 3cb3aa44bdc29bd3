package jwtinfra

import (
	"errors"
	"testing"
	"time"

	"github.com/acesso-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintVerify_RoundTrip(t *testing.T) {
	p, err := NewProvider("test-secret", 2*time.Hour)
	require.NoError(t, err)

	token, err := p.Mint("11144477735")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "11144477735", claims.CPF)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerify_Expired(t *testing.T) {
	p, err := NewProvider("test-secret", -time.Minute)
	require.NoError(t, err)

	token, err := p.Mint("11144477735")
	require.NoError(t, err)

	_, err = p.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExpired))
}

func TestVerify_Malformed(t *testing.T) {
	p, err := NewProvider("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = p.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_Tampered(t *testing.T) {
	signer, err := NewProvider("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewProvider("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := signer.Mint("11144477735")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider("", time.Hour)
	require.Error(t, err)
}
