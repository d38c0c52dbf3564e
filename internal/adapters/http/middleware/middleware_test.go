package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	tokens     map[string]domain.AuthContext
	principals map[domain.PrincipalID]domain.AuthContext
}

func (f *fakeResolver) ResolvePrincipal(_ context.Context, p domain.PrincipalID) (domain.AuthContext, error) {
	if auth, ok := f.principals[p]; ok {
		return auth, nil
	}
	return domain.Anonymous, domain.ErrUnauthenticated
}

func (f *fakeResolver) ResolveBearer(_ context.Context, token string) (domain.AuthContext, error) {
	if auth, ok := f.tokens[token]; ok {
		return auth, nil
	}
	return domain.Anonymous, domain.ErrUnauthenticated
}

var (
	guestAuth = domain.AuthContext{Principal: "user-1", Email: "a@example.com", Role: domain.RoleGuest}
	adminAuth = domain.AuthContext{Principal: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

func newAuthApp(t *testing.T, store *session.Store) *fiber.App {
	t.Helper()
	resolver := &fakeResolver{
		tokens:     map[string]domain.AuthContext{"guest-token": guestAuth, "admin-token": adminAuth},
		principals: map[domain.PrincipalID]domain.AuthContext{"user-1": guestAuth},
	}

	app := fiber.New()
	app.Use(Auth(resolver, store, logger.NewTestLogger(t)))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(CurrentAuth(c).Principal.String())
	})
	app.Get("/private", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Post("/private", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin", AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("admin")
	})
	app.Get("/login-as", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(SessionPrincipal, "user-1")
		return sess.Save()
	})
	return app
}

func TestAuthResolvesBearerToken(t *testing.T) {
	app := newAuthApp(t, session.New())

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer guest-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "user-1", string(got))
}

func TestAuthResolvesSessionPrincipal(t *testing.T) {
	app := newAuthApp(t, session.New())

	resp, err := app.Test(httptest.NewRequest("GET", "/login-as", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(cookies[0])
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuth(t *testing.T) {
	app := newAuthApp(t, session.New())

	t.Run("json caller gets 401", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/private", nil)
		req.Header.Set("Accept", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("browser is sent to login", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Accept", "text/html")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("unknown token stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/private", nil)
		req.Header.Set("Authorization", "Bearer nope")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAdminOnly(t *testing.T) {
	app := newAuthApp(t, session.New())

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", fiber.StatusUnauthorized},
		{"guest", "guest-token", fiber.StatusForbidden},
		{"admin", "admin-token", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Accept", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/stats", CacheControl(5*time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("stats")
	})
	app.Get("/mine", NoCacheHeaders(), func(c *fiber.Ctx) error {
		return c.SendString("mine")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))

	resp, err = app.Test(httptest.NewRequest("GET", "/mine", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
}

func TestCookieKeyIsStable(t *testing.T) {
	key := CookieKey("secret")
	assert.Equal(t, key, CookieKey("secret"))
	assert.NotEqual(t, key, CookieKey("other"))
	assert.Len(t, key, 44)
}
