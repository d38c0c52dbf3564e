package middleware

import (
	"time"

	"homyhive/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session keys
const (
	SessionPrincipal     = "principal"
	SessionPendingSignup = "pendingSignup"
	SessionFlash         = "flash"
	SessionFlashKind     = "flashKind"
)

// NewSessionStore creates the session store. storage may be nil in tests,
// in which case sessions live in process memory.
func NewSessionStore(cfg *config.Config, storage fiber.Storage) *session.Store {
	ttl := cfg.Session.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	name := cfg.Session.CookieName
	if name == "" {
		name = "homyhive_session"
	}

	return session.New(session.Config{
		Storage:        storage,
		Expiration:     ttl,
		KeyLookup:      "cookie:" + name,
		CookieSecure:   cfg.Session.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}
