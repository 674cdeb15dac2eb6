package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken("sid-1", 42, "alice", "customer", time.Now())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.ID)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "customer", claims.Role)
}

func TestService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := New("test-secret", time.Hour)

	foreign, err := New("other-secret", time.Hour).GenerateToken("sid", 1, "u", "customer", time.Now())
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old, err := svc.GenerateToken("sid", 1, "u", "customer", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
