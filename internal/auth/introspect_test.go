package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

func TestDecodeUnverifiedGarbage(t *testing.T) {
	for _, input := range []string{
		"",
		"not-a-real-token",
		"a.b",
		"a.b.c.d",
		"\x00\x01\x02",
		"eyJhbGciOiJIUzI1NiJ9",
	} {
		assert.Nil(t, DecodeUnverified(input), "input %q", input)
		assert.Nil(t, Info(input), "input %q", input)
	}
}

func TestDecodeUnverifiedIgnoresSignature(t *testing.T) {
	tm := NewTokenManager("some-secret", "crm-test", time.Hour)
	token, _, err := tm.Issue(testInput())
	require.NoError(t, err)

	// Decoding works without knowledge of the signing key.
	decoded := DecodeUnverified(token)
	require.NotNil(t, decoded)
	assert.Equal(t, "HS256", decoded.Header["alg"])
	assert.Equal(t, "u1", decoded.Claims.Subject)
	assert.Equal(t, domain.RoleAdmin, decoded.Claims.Role)
}

func TestInfoValidToken(t *testing.T) {
	tm := NewTokenManager("some-secret", "crm-test", time.Hour)
	token, exp, err := tm.Issue(testInput())
	require.NoError(t, err)

	info := Info(token)
	require.NotNil(t, info)
	assert.Equal(t, "u1", info.SubjectID)
	assert.Equal(t, "a@b.com", info.Email)
	assert.Equal(t, domain.RoleAdmin, info.Role)
	assert.WithinDuration(t, exp, info.ExpiresAt, time.Second)
	assert.False(t, info.IsExpired)
	assert.Greater(t, info.SecondsUntilExpiry, int64(0))
	assert.LessOrEqual(t, info.SecondsUntilExpiry, int64(time.Hour/time.Second))
}

func TestInfoExpiredToken(t *testing.T) {
	tm := NewTokenManager("some-secret", "crm-test", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.Issue(testInput())
	require.NoError(t, err)

	info := Info(token)
	require.NotNil(t, info)
	assert.True(t, info.IsExpired)
	assert.Negative(t, info.SecondsUntilExpiry)
}
