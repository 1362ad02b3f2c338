package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinisense-api/internal/config"
)

func newManager(t *testing.T, secret string, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{JWTSecret: secret, TokenTTL: ttl})
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(config.AuthConfig{JWTSecret: ""})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newManager(t, "unit-test-secret", time.Hour)

	token, err := m.GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newManager(t, "unit-test-secret", time.Hour)

	_, err := m.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := newManager(t, "secret-one", time.Hour)
	verifier := newManager(t, "secret-two", time.Hour)

	token, err := issuer.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := newManager(t, "unit-test-secret", -time.Minute)

	token, err := m.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}
