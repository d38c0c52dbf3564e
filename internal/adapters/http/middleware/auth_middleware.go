package middleware

import (
	"context"
	"errors"
	"strings"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// LocalAuth is the fiber local holding the request's domain.AuthContext
const LocalAuth = "auth"

// Resolver turns a session principal or a bearer token into an AuthContext
type Resolver interface {
	ResolvePrincipal(ctx context.Context, principal domain.PrincipalID) (domain.AuthContext, error)
	ResolveBearer(ctx context.Context, token string) (domain.AuthContext, error)
}

// Auth resolves the caller once per request. Requests without credentials
// continue as anonymous; guards further down decide what that means.
func Auth(resolver Resolver, store *session.Store, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := domain.Anonymous

		if token := bearerToken(c); token != "" {
			resolved, err := resolver.ResolveBearer(c.UserContext(), token)
			if err == nil {
				auth = resolved
			} else if !errors.Is(err, domain.ErrUnauthenticated) {
				log.Warn("bearer token rejected", map[string]interface{}{"error": err.Error(), "path": c.Path()})
			}
		} else if store != nil {
			sess, err := store.Get(c)
			if err != nil {
				log.Warn("session lookup failed", map[string]interface{}{"error": err.Error()})
			} else if p, ok := sess.Get(SessionPrincipal).(string); ok && p != "" {
				resolved, err := resolver.ResolvePrincipal(c.UserContext(), domain.PrincipalID(p))
				if err == nil {
					auth = resolved
				} else {
					// The account went away or was suspended
					sess.Delete(SessionPrincipal)
					if err := sess.Save(); err != nil {
						log.Warn("session save failed", map[string]interface{}{"error": err.Error()})
					}
				}
			}
		}

		c.Locals(LocalAuth, auth)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentAuth returns the caller resolved by Auth, or Anonymous
func CurrentAuth(c *fiber.Ctx) domain.AuthContext {
	if auth, ok := c.Locals(LocalAuth).(domain.AuthContext); ok {
		return auth
	}
	return domain.Anonymous
}

// RequireAuth rejects anonymous callers. Browsers are sent to the login page.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentAuth(c).IsAuthenticated() {
			return c.Next()
		}
		if !response.WantsJSON(c) && c.Method() == fiber.MethodGet {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return response.Unauthorized(c, "Please log in first")
	}
}

// RoleMiddleware checks the caller holds one of roles
func RoleMiddleware(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := CurrentAuth(c)
		if !auth.IsAuthenticated() {
			if !response.WantsJSON(c) && c.Method() == fiber.MethodGet {
				return c.Redirect("/login", fiber.StatusSeeOther)
			}
			return response.Unauthorized(c, "Please log in first")
		}

		for _, role := range roles {
			if auth.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Access denied")
	}
}

// AdminOnly allows only admin users
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}
