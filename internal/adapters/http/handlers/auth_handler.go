package handlers

import (
	"encoding/json"

	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/domain"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AuthHandler handles login, signup and logout
type AuthHandler struct {
	identity *services.IdentityService
	sessions *session.Store
	resp     *Responder
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService, sessions *session.Store, resp *Responder) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		sessions: sessions,
		resp:     resp,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SignupRequest represents signup request body
type SignupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Password string `json:"password" form:"password"`
}

// VerifyOTPRequest represents the one-time code confirmation
type VerifyOTPRequest struct {
	OTP string `json:"otp" form:"otp"`
}

// Signup handles user registration
// @Summary Start signup
// @Description Validates the account details and emails a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	pending, err := h.identity.Signup(c.UserContext(), &services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return h.resp.report(c, "signup", err)
	}

	encoded, err := json.Marshal(pending)
	if err != nil {
		return h.resp.report(c, "signup", err)
	}
	sess, err := h.sessions.Get(c)
	if err != nil {
		return h.resp.report(c, "signup", err)
	}
	sess.Set(middleware.SessionPendingSignup, string(encoded))
	if err := sess.Save(); err != nil {
		return h.resp.report(c, "signup", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Verification code sent to "+pending.Email, fiber.Map{
		"email": pending.Email,
	}, "/verify-otp")
}

// VerifyOTP confirms a pending signup
// @Summary Verify signup code
// @Description Creates the account held in the session and logs it in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "One-time code"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return h.resp.report(c, "verify otp", err)
	}

	var pending *services.PendingSignup
	if raw, ok := sess.Get(middleware.SessionPendingSignup).(string); ok && raw != "" {
		pending = &services.PendingSignup{}
		if err := json.Unmarshal([]byte(raw), pending); err != nil {
			pending = nil
		}
	}

	user, err := h.identity.VerifyOTP(c.UserContext(), pending, req.OTP)
	if err != nil {
		return h.resp.report(c, "verify otp", err)
	}

	sess.Delete(middleware.SessionPendingSignup)
	if err := sess.Regenerate(); err != nil {
		return h.resp.report(c, "verify otp", err)
	}
	sess.Set(middleware.SessionPrincipal, user.ExternalID)
	if err := sess.Save(); err != nil {
		return h.resp.report(c, "verify otp", err)
	}

	return h.resp.Done(c, fiber.StatusCreated, "Welcome to HomyHive, "+user.DisplayName, user, "/listings")
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.identity.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.resp.report(c, "login", err)
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return h.resp.report(c, "login", err)
	}
	if err := sess.Regenerate(); err != nil {
		return h.resp.report(c, "login", err)
	}
	sess.Set(middleware.SessionPrincipal, user.ExternalID)
	if err := sess.Save(); err != nil {
		return h.resp.report(c, "login", err)
	}

	redirect := "/listings"
	if user.Role() == domain.RoleAdmin {
		redirect = "/admin/dashboard"
	}

	return h.resp.Done(c, fiber.StatusOK, "Welcome back!", fiber.Map{
		"user":     user,
		"redirect": redirect,
	}, redirect)
}

// Logout handles user logout
// @Summary Logout user
// @Description Destroys the session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return h.resp.report(c, "logout", err)
	}
	if err := sess.Destroy(); err != nil {
		return h.resp.report(c, "logout", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Logged out", nil, "/listings")
}

// Me returns the current caller
// @Summary Get current user
// @Description Returns the resolved identity of the caller
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	auth := middleware.CurrentAuth(c)
	return response.Success(c, "", fiber.Map{
		"principal":   auth.Principal.String(),
		"email":       auth.Email,
		"displayName": auth.DisplayName,
		"role":        auth.Role,
	})
}
