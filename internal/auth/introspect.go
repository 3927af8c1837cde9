package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// UnverifiedToken is the structural decoding of a token. The signature
// is NOT checked; never use this to authorize anything.
type UnverifiedToken struct {
	Header map[string]any `json:"header"`
	Claims *Claims        `json:"claims"`
}

// DecodeUnverified decodes a token without verifying its signature.
// Returns nil for anything that cannot be structurally parsed.
func DecodeUnverified(tokenStr string) *UnverifiedToken {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
	if err != nil {
		return nil
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil
	}
	return &UnverifiedToken{Header: parsed.Header, Claims: claims}
}

// TokenInfo is human-oriented expiry and identity metadata for a token.
type TokenInfo struct {
	IssuedAt           time.Time   `json:"issued_at"`
	ExpiresAt          time.Time   `json:"expires_at"`
	IsExpired          bool        `json:"is_expired"`
	SecondsUntilExpiry int64       `json:"seconds_until_expiry"`
	SubjectID          string      `json:"subject_id"`
	Email              string      `json:"email"`
	Role               domain.Role `json:"role"`
}

// Info summarizes a token's timestamps and identity without verifying
// the signature. Returns nil when the token cannot be decoded.
func Info(tokenStr string) *TokenInfo {
	decoded := DecodeUnverified(tokenStr)
	if decoded == nil {
		return nil
	}

	claims := decoded.Claims
	info := &TokenInfo{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	now := time.Now()
	info.IsExpired = !now.Before(info.ExpiresAt)
	info.SecondsUntilExpiry = int64(info.ExpiresAt.Sub(now).Seconds())
	return info
}
