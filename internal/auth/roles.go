package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
)

// RequireRole gates a route on the resolved identity's role. It must run
// after the verification middleware; an anonymous request is always
// rejected regardless of the allow-list. An empty allow-list admits any
// authenticated identity.
func RequireRole(logger *zap.Logger, allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
		names = append(names, string(role))
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return errAuthenticationRequired()
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			logger.Warn("role check failed",
				zap.Strings("required", names),
				zap.String("role", string(identity.Role)),
				zap.String("user", identity.Email))
			return errInsufficientPermissions()
		}
		return c.Next()
	}
}
