package handlers

import (
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SupportHandler handles the contact form and newsletter signups
type SupportHandler struct {
	support *services.SupportService
	resp    *Responder
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(support *services.SupportService, resp *Responder) *SupportHandler {
	return &SupportHandler{support: support, resp: resp}
}

// Contact forwards a support request to the matching inbox
// @Summary Contact support
// @Tags Support
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.ContactInput true "Message"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /contact [post]
func (h *SupportHandler) Contact(c *fiber.Ctx) error {
	var input services.ContactInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	inbox, err := h.support.Contact(c.UserContext(), &input)
	if err != nil {
		return h.resp.report(c, "contact", err)
	}
	return h.resp.Done(c, fiber.StatusOK, "Thanks, our team will get back to you soon", fiber.Map{"routedTo": inbox}, "/contact")
}

// Subscribe adds an address to the newsletter
// @Summary Newsletter signup
// @Tags Support
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.NewsletterInput true "Email"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /newsletter [post]
func (h *SupportHandler) Subscribe(c *fiber.Ctx) error {
	var input services.NewsletterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sub, err := h.support.Subscribe(c.UserContext(), &input)
	if err != nil {
		return h.resp.report(c, "newsletter", err)
	}
	return h.resp.Done(c, fiber.StatusCreated, "Subscribed to the HomyHive newsletter", sub, "/")
}
