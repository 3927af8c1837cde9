package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// Verification failures. Verify never returns anything else.
var (
	// ErrTokenExpired marks a correctly signed token whose expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenMalformed marks a token that cannot be parsed or whose signature does not match.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrInvalidPayload marks a correctly signed token missing required claims.
	ErrInvalidPayload = errors.New("token payload is incomplete")
)

const defaultTokenTTL = 24 * time.Hour

// TokenManager issues and validates signed JWT access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Claims describes the JWT payload.
type Claims struct {
	Username string      `json:"username,omitempty"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenInput is the identity record embedded into a new token.
type TokenInput struct {
	SubjectID string
	Username  string
	Email     string
	Role      domain.Role
}

// Issue builds and signs a token for the given identity.
func (tm *TokenManager) Issue(input TokenInput) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Username: input.Username,
		Email:    input.Email,
		Role:     input.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.SubjectID,
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the signature and expiry and returns the claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	// A token signed with the right key can still come from a
	// misconfigured issuer that dropped required claims.
	if claims.Subject == "" || claims.Email == "" || claims.Role == "" {
		return nil, ErrInvalidPayload
	}
	return claims, nil
}
