package handlers

import (
	"errors"

	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Flash is the message shown on the next page a browser loads
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Responder writes content-negotiated replies. JSON callers get the
// response envelope; browser form posts get a flash message and a redirect.
type Responder struct {
	sessions *session.Store
	log      logger.Logger
}

// NewResponder creates a responder. sessions may be nil, in which case every
// caller gets JSON.
func NewResponder(sessions *session.Store, log logger.Logger) *Responder {
	return &Responder{sessions: sessions, log: log}
}

// Fail maps a service error to its HTTP reply
func (r *Responder) Fail(c *fiber.Ctx, err error) error {
	status, message := classify(err)

	if r.browser(c) {
		target := c.Get(fiber.HeaderReferer, "/")
		if status == fiber.StatusUnauthorized {
			target = "/login"
		}
		r.flash(c, "error", message)
		return c.Redirect(target, fiber.StatusSeeOther)
	}

	var verr *domain.ValidationError
	var dup *domain.DuplicateApplicationError
	switch {
	case errors.As(err, &verr):
		return response.ValidationFailed(c, verr.Message, verr.Fields)
	case errors.As(err, &dup):
		return response.ErrorWithData(c, status, message, fiber.Map{
			"existingApplicationId": dup.ExistingID,
		})
	default:
		return response.Error(c, status, message)
	}
}

// Done replies with data to JSON callers and redirects browsers to target
func (r *Responder) Done(c *fiber.Ctx, status int, message string, data interface{}, target string) error {
	if target != "" && r.browser(c) {
		r.flash(c, "success", message)
		return c.Redirect(target, fiber.StatusSeeOther)
	}
	if status == fiber.StatusCreated {
		return response.Created(c, message, data)
	}
	return response.Success(c, message, data)
}

// TakeFlash returns and clears the pending flash message, if any
func (r *Responder) TakeFlash(c *fiber.Ctx) *Flash {
	if r.sessions == nil {
		return nil
	}
	sess, err := r.sessions.Get(c)
	if err != nil {
		return nil
	}
	message, ok := sess.Get(middleware.SessionFlash).(string)
	if !ok || message == "" {
		return nil
	}
	kind, _ := sess.Get(middleware.SessionFlashKind).(string)
	sess.Delete(middleware.SessionFlash)
	sess.Delete(middleware.SessionFlashKind)
	if err := sess.Save(); err != nil {
		r.log.Warn("session save failed", map[string]interface{}{"error": err.Error()})
	}
	return &Flash{Kind: kind, Message: message}
}

func (r *Responder) browser(c *fiber.Ctx) bool {
	return r.sessions != nil && c.Method() != fiber.MethodGet && !response.WantsJSON(c)
}

func (r *Responder) flash(c *fiber.Ctx, kind, message string) {
	sess, err := r.sessions.Get(c)
	if err != nil {
		r.log.Warn("session lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	sess.Set(middleware.SessionFlash, message)
	sess.Set(middleware.SessionFlashKind, kind)
	if err := sess.Save(); err != nil {
		r.log.Warn("session save failed", map[string]interface{}{"error": err.Error()})
	}
}

func classify(err error) (int, string) {
	var verr *domain.ValidationError
	var dup *domain.DuplicateApplicationError

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Message
	case errors.As(err, &dup):
		return fiber.StatusConflict, "An application with this email or phone already exists"
	case errors.Is(err, domain.ErrDuplicateEntry):
		return fiber.StatusConflict, "Already exists"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "Please log in first"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusForbidden, "You do not have permission to do that"
	case errors.Is(err, domain.ErrInvalidSignature):
		return fiber.StatusBadRequest, "Payment verification failed"
	case errors.Is(err, domain.ErrOrderMismatch):
		return fiber.StatusBadRequest, "This payment does not match the order"
	case errors.Is(err, domain.ErrInvalidDates):
		return fiber.StatusBadRequest, "Check-out must be after check-in"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusBadRequest, "That status change is not allowed"
	case errors.Is(err, domain.ErrGateway):
		return fiber.StatusBadGateway, "An upstream service is unavailable, please try again"
	default:
		return fiber.StatusInternalServerError, "Something went wrong"
	}
}

// report logs unexpected failures before replying
func (r *Responder) report(c *fiber.Ctx, op string, err error) error {
	if status, _ := classify(err); status >= fiber.StatusInternalServerError {
		r.log.WithError(err).Error(op+" failed", map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}
	return r.Fail(c, err)
}
