package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
)

const (
	identityKey = "auth_identity"
	failureKey  = "auth_failure_code"
)

// Identity is the per-request projection of validated token claims.
type Identity struct {
	SubjectID string
	Username  string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthMiddleware validates bearer tokens and attaches identities to requests.
type AuthMiddleware struct {
	tokens      *TokenManager
	logger      *zap.Logger
	exposeCause bool
}

// NewAuthMiddleware constructs middleware. exposeCause controls whether
// rejection responses carry the underlying parse error and must be false
// in production.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger, exposeCause bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger, exposeCause: exposeCause}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	m.logger.Debug("token authentication attempt",
		zap.Bool("has_token", ok),
		zap.String("path", c.Path()),
		zap.String("method", c.Method()))

	if !ok {
		m.logger.Info("no access token provided",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()))
		return errMissingToken()
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Warn("token verification failed",
			zap.String("code", codeForVerifyError(err)),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()))
		return rejectionForVerifyError(err, m.exposeCause)
	}

	c.Locals(identityKey, identityFromClaims(claims))
	return c.Next()
}

// Optional verifies a bearer token when present but never rejects: a
// missing or invalid credential yields an anonymous request. The failure
// code is still recorded so downstream code can tell an expired token
// from an absent one.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		c.Locals(failureKey, codeForVerifyError(err))
		m.logger.Debug("optional auth: invalid token, continuing anonymously",
			zap.String("code", codeForVerifyError(err)),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()))
		return c.Next()
	}

	identity := identityFromClaims(claims)
	c.Locals(identityKey, identity)
	m.logger.Debug("optional auth: identity resolved", zap.String("user", identity.Email))
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

// FailureCodeFromContext reports why the optional-auth path resolved no
// identity for this request.
func FailureCodeFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(failureKey)
	if val == nil {
		return "", false
	}
	code, ok := val.(string)
	return code, ok
}

func identityFromClaims(claims *Claims) *Identity {
	identity := &Identity{
		SubjectID: claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity
}

// bearerToken extracts the credential from the Authorization header. A
// malformed scheme is treated the same as no credential at all.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
