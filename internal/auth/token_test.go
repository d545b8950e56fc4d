package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-tickets/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, exp, err := tm.GenerateToken(&domain.User{ID: 42, Role: domain.RoleOperator})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, domain.RoleOperator, claims.Role)
}

func TestParseTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	token, _, err := NewTokenManager("one", 5).GenerateToken(&domain.User{ID: 1, Role: domain.RoleClient})
	require.NoError(t, err)
	_, err = NewTokenManager("two", 5).ParseToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("one", 5)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err = expired.GenerateToken(&domain.User{ID: 1, Role: domain.RoleClient})
	require.NoError(t, err)
	_, err = NewTokenManager("one", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestBearerMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	app := fiber.New()
	app.Get("/", Bearer(tm), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(claims.Subject)
	})

	token, _, err := tm.GenerateToken(&domain.User{ID: 7, Role: domain.RoleClient})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	// fiber's default error handler renders non-fiber errors as 500.
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
