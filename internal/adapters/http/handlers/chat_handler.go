package handlers

import (
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles the assistant widget
type ChatHandler struct {
	chat *services.ChatService
	resp *Responder
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, resp *Responder) *ChatHandler {
	return &ChatHandler{chat: chat, resp: resp}
}

// Config returns the widget configuration
// @Summary Chat widget config
// @Tags Chat
// @Produce json
// @Param path query string false "Page the widget would render on"
// @Success 200 {object} response.Response
// @Router /chat [get]
func (h *ChatHandler) Config(c *fiber.Ctx) error {
	cfg := h.chat.Config()
	if path := c.Query("path"); path != "" && !services.ChatVisible(path) {
		cfg.Enabled = false
	}
	return response.Success(c, "", cfg)
}

// Ask relays a question to the assistant backend
// @Summary Ask the assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body services.AskInput true "Question"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/chat [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var input services.AskInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	answer, err := h.chat.Ask(c.UserContext(), &input)
	if err != nil {
		return h.resp.report(c, "chat", err)
	}
	return response.Success(c, "", answer)
}
