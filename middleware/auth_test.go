package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type fakeVerifier struct {
	userID string
}

func (f *fakeVerifier) ExtractTokenFromHeader(header string) (string, error) {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func (f *fakeVerifier) VerifyJWTToken(token string) (string, error) {
	if token != "good" {
		return "", errors.New("invalid token")
	}
	return f.userID, nil
}

type fakeValidator struct {
	known map[string]bool
}

func (f *fakeValidator) ValidateUser(userID string) error {
	if !f.known[userID] {
		return shared.ErrUnauthorized("unknown user")
	}
	return nil
}

func newTestApp(mw *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Get("/secure", mw.RequiredAuth(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(shared.UserID).(string))
	})
	return app
}

func TestRequiredAuthAcceptsKnownUser(t *testing.T) {
	mw := &AuthMiddleware{
		jwtSvc:  &fakeVerifier{userID: "u1"},
		authSvc: &fakeValidator{known: map[string]bool{"u1": true}},
	}
	app := newTestApp(mw)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequiredAuthRejectsMissingToken(t *testing.T) {
	mw := &AuthMiddleware{
		jwtSvc:  &fakeVerifier{userID: "u1"},
		authSvc: &fakeValidator{known: map[string]bool{"u1": true}},
	}
	app := newTestApp(mw)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequiredAuthRejectsTokenForDeletedAccount(t *testing.T) {
	// A valid token whose user no longer exists must not pass.
	mw := &AuthMiddleware{
		jwtSvc:  &fakeVerifier{userID: "gone"},
		authSvc: &fakeValidator{known: map[string]bool{}},
	}
	app := newTestApp(mw)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuthPassesThroughWithoutToken(t *testing.T) {
	mw := &AuthMiddleware{
		jwtSvc:  &fakeVerifier{userID: "u1"},
		authSvc: &fakeValidator{known: map[string]bool{"u1": true}},
	}

	app := fiber.New()
	app.Get("/open", mw.OptionalAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
