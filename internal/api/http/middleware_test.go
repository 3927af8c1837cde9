package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/observability"
)

const testSecret = "middleware-test-secret"

type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

func newTestApp(t *testing.T, exposeCause bool) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	logger := zap.NewNop()
	tm := auth.NewTokenManager(testSecret, "crm-test", time.Hour)
	m := auth.NewAuthMiddleware(tm, logger, exposeCause)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)

	identityEcho := func(c *fiber.Ctx) error {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			body := fiber.Map{"user": "anonymous"}
			if code, found := auth.FailureCodeFromContext(c); found {
				body["failure"] = code
			}
			return c.JSON(body)
		}
		return c.JSON(fiber.Map{"user": identity.Email, "role": identity.Role})
	}

	app.Get("/protected", m.Handle, identityEcho)
	app.Get("/optional", m.Optional, identityEcho)
	app.Get("/admin", m.Handle, auth.RequireRole(logger, domain.RoleAdmin), identityEcho)
	app.Get("/bare-admin", auth.RequireRole(logger, domain.RoleAdmin), identityEcho)

	return app, tm
}

func doRequest(t *testing.T, app *fiber.App, path, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func issueToken(t *testing.T, tm *auth.TokenManager, role domain.Role) string {
	t.Helper()
	token, _, err := tm.Issue(auth.TokenInput{SubjectID: "u1", Username: "demo", Email: "a@b.com", Role: role})
	require.NoError(t, err)
	return token
}

func signClaims(t *testing.T, claims *auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func expiredToken(t *testing.T) string {
	return signClaims(t, &auth.Claims{
		Email: "a@b.com",
		Role:  domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
}

func TestProtectedWithoutToken(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, body := doRequest(t, app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeMissingToken, body["code"])
}

func TestProtectedMalformedToken(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, body := doRequest(t, app, "/protected", "not-a-real-token")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, auth.CodeMalformedToken, body["code"])
	assert.NotContains(t, body, "details")
}

func TestProtectedExpiredToken(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, body := doRequest(t, app, "/protected", expiredToken(t))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeTokenExpired, body["code"])
}

func TestProtectedIncompletePayload(t *testing.T) {
	app, _ := newTestApp(t, false)

	// Correctly signed but the role claim is missing.
	token := signClaims(t, &auth.Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	status, body := doRequest(t, app, "/protected", token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, auth.CodeInvalidTokenPayload, body["code"])
}

func TestProtectedValidToken(t *testing.T) {
	app, tm := newTestApp(t, false)

	status, body := doRequest(t, app, "/protected", issueToken(t, tm, domain.RoleUser))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["user"])
}

func TestProtectedWrongScheme(t *testing.T) {
	app, tm := newTestApp(t, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic "+issueToken(t, tm, domain.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// A malformed scheme counts as no credential at all.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalWithoutToken(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, body := doRequest(t, app, "/optional", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body["user"])
	assert.NotContains(t, body, "failure")
}

func TestOptionalInvalidTokenProceedsAnonymously(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, body := doRequest(t, app, "/optional", "not-a-real-token")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body["user"])
	assert.Equal(t, auth.CodeMalformedToken, body["failure"])
}

func TestOptionalExpiredTokenPreservesFailureKind(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, body := doRequest(t, app, "/optional", expiredToken(t))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body["user"])
	assert.Equal(t, auth.CodeTokenExpired, body["failure"])
}

func TestOptionalValidToken(t *testing.T) {
	app, tm := newTestApp(t, false)

	status, body := doRequest(t, app, "/optional", issueToken(t, tm, domain.RoleUser))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["user"])
}

func TestRoleGuardDeniesInsufficientRole(t *testing.T) {
	app, tm := newTestApp(t, false)

	status, body := doRequest(t, app, "/admin", issueToken(t, tm, domain.RoleUser))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, auth.CodeInsufficientPermissions, body["code"])
}

func TestRoleGuardAllowsAdmin(t *testing.T) {
	app, tm := newTestApp(t, false)

	status, body := doRequest(t, app, "/admin", issueToken(t, tm, domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["user"])
}

func TestRoleGuardRequiresIdentity(t *testing.T) {
	app, tm := newTestApp(t, false)

	// Without the verification middleware no identity is ever attached,
	// so even a valid token is rejected.
	status, body := doRequest(t, app, "/bare-admin", issueToken(t, tm, domain.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeUnauthorized, body["code"])
}

func TestRejectionDetailsExposedOutsideProduction(t *testing.T) {
	app, _ := newTestApp(t, true)

	status, body := doRequest(t, app, "/protected", "not-a-real-token")
	assert.Equal(t, http.StatusForbidden, status)

	details, ok := body["details"].(map[string]any)
	require.True(t, ok, "expected details with the parse error cause")
	assert.NotEmpty(t, details["cause"])
}
