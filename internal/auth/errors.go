package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// Error codes surfaced in rejection responses.
const (
	CodeMissingToken            = "MISSING_TOKEN"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeMalformedToken          = "MALFORMED_TOKEN"
	CodeInvalidTokenPayload     = "INVALID_TOKEN_PAYLOAD"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
)

// codeForVerifyError classifies a TokenManager.Verify failure.
func codeForVerifyError(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrInvalidPayload):
		return CodeInvalidTokenPayload
	case errors.Is(err, ErrTokenMalformed):
		return CodeMalformedToken
	default:
		return CodeInvalidToken
	}
}

// rejectionForVerifyError maps a verification failure to the wire error.
// Expired tokens stay 401 so clients can prompt a re-login; everything
// else is 403. The underlying cause is attached only when exposeCause
// is set (never in production).
func rejectionForVerifyError(err error, exposeCause bool) error {
	var details map[string]any
	if exposeCause {
		details = map[string]any{"cause": err.Error()}
	}

	switch codeForVerifyError(err) {
	case CodeTokenExpired:
		return apperrors.NewDomainError(CodeTokenExpired, "token has expired", http.StatusUnauthorized, details)
	case CodeInvalidTokenPayload:
		return apperrors.NewDomainError(CodeInvalidTokenPayload, "token payload is invalid", http.StatusForbidden, details)
	case CodeMalformedToken:
		return apperrors.NewDomainError(CodeMalformedToken, "token is malformed", http.StatusForbidden, details)
	default:
		return apperrors.NewDomainError(CodeInvalidToken, "token is not valid", http.StatusForbidden, details)
	}
}

func errMissingToken() error {
	return apperrors.NewDomainError(CodeMissingToken, "access token is required", http.StatusUnauthorized, nil)
}

func errAuthenticationRequired() error {
	return apperrors.NewDomainError(CodeUnauthorized, "authentication required", http.StatusUnauthorized, nil)
}

func errInsufficientPermissions() error {
	return apperrors.NewDomainError(CodeInsufficientPermissions, "insufficient permissions", http.StatusForbidden, nil)
}
