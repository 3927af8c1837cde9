package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

func testInput() TokenInput {
	return TokenInput{
		SubjectID: "u1",
		Username:  "demo",
		Email:     "a@b.com",
		Role:      domain.RoleAdmin,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "crm-test", time.Hour)

	token, exp, err := tm.Issue(testInput())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "demo", claims.Username)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "crm-test", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestVerifyExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "crm-test", time.Second)

	token, _, err := tm.Issue(testInput())
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.NoError(t, err, "token should still be valid immediately after issuance")

	// Move the clock two seconds past issuance.
	tm.now = func() time.Time { return time.Now().Add(2 * time.Second) }

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "crm-test", time.Hour)
	verifier := NewTokenManager("secret-b", "crm-test", time.Hour)

	token, _, err := issuer.Issue(testInput())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "crm-test", time.Hour)

	for _, input := range []string{
		"",
		"not-a-real-token",
		"a.b.c",
		"eyJhbGciOiJIUzI1NiJ9.!!!.sig",
		"....",
	} {
		_, err := tm.Verify(input)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", input)
	}
}

func TestVerifyUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", "crm-test", time.Hour)

	claims := &Claims{
		Email: "a@b.com",
		Role:  domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyIncompletePayload(t *testing.T) {
	tm := NewTokenManager("test-secret", "crm-test", time.Hour)

	cases := map[string]*Claims{
		"missing role": {
			Email: "a@b.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
		"missing email": {
			Role: domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
		"missing subject": {
			Email: "a@b.com",
			Role:  domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
	}

	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			// Correctly signed, structurally valid, semantically incomplete.
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
			require.NoError(t, err)

			_, err = tm.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestDefaultTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", "crm-test", 0)

	_, exp, err := tm.Issue(testInput())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultTokenTTL), exp, time.Minute)
}
