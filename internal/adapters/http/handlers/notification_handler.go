package handlers

import (
	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	notifications *services.NotificationService
	resp          *Responder
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService, resp *Responder) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, resp: resp}
}

// MarkReadRequest lists notifications to mark as read
type MarkReadRequest struct {
	NotificationIDs []uint `json:"notificationIds"`
}

// List returns the caller's newest notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum items" default(10)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	auth := middleware.CurrentAuth(c)
	items, err := h.notifications.List(c.UserContext(), auth.Principal, c.QueryInt("limit", services.DefaultNotificationLimit))
	if err != nil {
		return h.resp.report(c, "list notifications", err)
	}
	return response.Success(c, "", items)
}

// UnreadCount returns the number of unread notifications
// @Summary Unread notification count
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notifications.UnreadCount(c.UserContext(), middleware.CurrentAuth(c).Principal)
	if err != nil {
		return h.resp.report(c, "unread count", err)
	}
	return response.Success(c, "", fiber.Map{"count": count})
}

// MarkRead marks the given notifications as read
// @Summary Mark notifications read
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MarkReadRequest true "Notification ids"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/notifications/mark-read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.notifications.MarkRead(c.UserContext(), middleware.CurrentAuth(c).Principal, req.NotificationIDs)
	if err != nil {
		return h.resp.report(c, "mark read", err)
	}
	return response.Success(c, "Notifications marked as read", fiber.Map{"updated": updated})
}

// MarkAllRead marks every notification of the caller as read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/notifications/mark-all-read [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	updated, err := h.notifications.MarkAllRead(c.UserContext(), middleware.CurrentAuth(c).Principal)
	if err != nil {
		return h.resp.report(c, "mark all read", err)
	}
	return response.Success(c, "All notifications marked as read", fiber.Map{"updated": updated})
}

// Create stores a notification. Only admins may address other users.
// @Summary Create notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateNotificationInput true "Notification"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/notifications [post]
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var input services.CreateNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	auth := middleware.CurrentAuth(c)
	if !auth.IsAdmin() || input.UserID == "" {
		input.UserID = auth.Principal.String()
	}

	n, err := h.notifications.Create(c.UserContext(), &input)
	if err != nil {
		return h.resp.report(c, "create notification", err)
	}
	return response.Created(c, "Notification created", n)
}
