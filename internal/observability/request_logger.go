package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// RequestLogger observes completed requests and records method, path,
// status, latency, and the resolved identity (or an anonymous marker).
// It is a pure observer: it never alters the response or fails a
// request. It must be registered before the error-handling middleware
// so it sees the final status code.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error middleware has not converted this yet.
			status = apperrors.ToDomainError(err).HTTPStatus
		}
		duration := time.Since(start)

		user := "anonymous"
		if identity, ok := auth.IdentityFromContext(c); ok {
			user = identity.Email
		}

		logger.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("user", user))

		metrics.RecordRequest(c.Path(), c.Method(), status, duration)
		return err
	}
}
