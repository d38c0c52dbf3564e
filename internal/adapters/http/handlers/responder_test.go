package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.NewValidationError("missing required fields", "idNumber"), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("load listing: %w", domain.ErrNotFound), fiber.StatusNotFound},
		{"unauthenticated", domain.ErrUnauthenticated, fiber.StatusUnauthorized},
		{"credentials", domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusForbidden},
		{"duplicate", domain.ErrDuplicateEntry, fiber.StatusConflict},
		{"duplicate application", &domain.DuplicateApplicationError{ExistingID: "HA-1"}, fiber.StatusConflict},
		{"signature", domain.ErrInvalidSignature, fiber.StatusBadRequest},
		{"order mismatch", fmt.Errorf("verify: %w", domain.ErrOrderMismatch), fiber.StatusBadRequest},
		{"dates", domain.ErrInvalidDates, fiber.StatusBadRequest},
		{"gateway", fmt.Errorf("create order: %w", domain.ErrGateway), fiber.StatusBadGateway},
		{"unknown", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResponder(nil, logger.NewTestLogger(t))
			app := fiber.New()
			app.Post("/", func(c *fiber.Ctx) error { return r.report(c, "test", tt.err) })

			resp, out := do(t, app, jsonRequest("POST", "/", nil))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, out.Success)
		})
	}
}

func TestFailCarriesFieldsAndExistingID(t *testing.T) {
	r := NewResponder(nil, logger.NewNoOpLogger())
	app := fiber.New()
	app.Post("/validation", func(c *fiber.Ctx) error {
		return r.Fail(c, domain.NewValidationError("missing required fields", "idNumber"))
	})
	app.Post("/duplicate", func(c *fiber.Ctx) error {
		return r.Fail(c, &domain.DuplicateApplicationError{ExistingID: "HA-42"})
	})

	_, out := do(t, app, jsonRequest("POST", "/validation", nil))
	assert.Equal(t, []string{"idNumber"}, out.Fields)

	_, out = do(t, app, jsonRequest("POST", "/duplicate", nil))
	assert.JSONEq(t, `{"existingApplicationId":"HA-42"}`, string(out.Data))
}

func TestFailRedirectsBrowsersWithFlash(t *testing.T) {
	r := NewResponder(session.New(), logger.NewTestLogger(t))
	app := fiber.New()
	app.Post("/listings/5/reviews", func(c *fiber.Ctx) error {
		return r.Fail(c, domain.NewValidationError("invalid review", "rating"))
	})
	app.Post("/listings", func(c *fiber.Ctx) error {
		return r.Fail(c, domain.ErrUnauthenticated)
	})

	req := httptest.NewRequest("POST", "/listings/5/reviews", nil)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Referer", "/listings/5")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/listings/5", resp.Header.Get("Location"))

	require.NotEmpty(t, resp.Cookies())

	req = httptest.NewRequest("POST", "/listings", nil)
	req.Header.Set("Accept", "text/html")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestTakeFlashReturnsMessageOnce(t *testing.T) {
	r := NewResponder(session.New(), logger.NewTestLogger(t))
	app := fiber.New()
	app.Post("/contact", func(c *fiber.Ctx) error {
		return r.Done(c, fiber.StatusOK, "Thanks", nil, "/contact")
	})
	app.Get("/flash", func(c *fiber.Ctx) error {
		flash := r.TakeFlash(c)
		if flash == nil {
			return c.SendString("none")
		}
		return c.SendString(flash.Kind + ":" + flash.Message)
	})

	req := httptest.NewRequest("POST", "/contact", nil)
	req.Header.Set("Accept", "text/html")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	cookie := resp.Cookies()[0]

	read := func() string {
		req := httptest.NewRequest("GET", "/flash", nil)
		req.AddCookie(cookie)
		resp, err := app.Test(req)
		require.NoError(t, err)
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, resp.Body)
		return buf.String()
	}
	assert.Equal(t, "success:Thanks", read())
	assert.Equal(t, "none", read())
}

func TestDoneSendsJSONToAPICallers(t *testing.T) {
	r := NewResponder(session.New(), logger.NewNoOpLogger())
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return r.Done(c, fiber.StatusCreated, "Created", fiber.Map{"id": 1}, "/listings/1")
	})

	resp, out := do(t, app, jsonRequest("POST", "/", nil))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, out.Success)
	assert.JSONEq(t, `{"id":1}`, string(out.Data))
}
