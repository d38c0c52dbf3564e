package handlers

import (
	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin decisions on host applications
type AdminHandler struct {
	admin *services.AdminService
	resp  *Responder
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *services.AdminService, resp *Responder) *AdminHandler {
	return &AdminHandler{admin: admin, resp: resp}
}

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status    string `json:"status" form:"status"`
	AdminNote string `json:"adminNote" form:"adminNote"`
}

// RejectRequest represents a rejection
type RejectRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// NoteRequest represents an admin note
type NoteRequest struct {
	Note string `json:"note" form:"note"`
}

// UpdateStatus moves an application to a new status
// @Summary Update application status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/host-requests/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	id := c.Params("id")
	app, err := h.admin.UpdateStatus(c.UserContext(), id, req.Status, req.AdminNote, middleware.CurrentAuth(c))
	if err != nil {
		return h.resp.report(c, "update status", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Application status updated", app, "/admin/host-requests/"+id)
}

// Approve approves an application and publishes its listing
// @Summary Approve host request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/host-requests/{id}/approve [post]
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	result, err := h.admin.ApproveAndPublish(c.UserContext(), id, middleware.CurrentAuth(c))
	if err != nil {
		return h.resp.report(c, "approve application", err)
	}

	data := fiber.Map{"application": result.Application}
	if result.Listing != nil {
		data["listing"] = result.Listing.ToResponse()
	}
	return h.resp.Done(c, fiber.StatusOK, "Host approved and listing published", data, "/admin/host-requests/"+id)
}

// Reject rejects an application
// @Summary Reject host request
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body RejectRequest false "Reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/host-requests/{id}/reject [post]
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	var req RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	id := c.Params("id")
	app, err := h.admin.RejectApplication(c.UserContext(), id, req.Reason, middleware.CurrentAuth(c))
	if err != nil {
		return h.resp.report(c, "reject application", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Application rejected", app, "/admin/host-requests/"+id)
}

// EnableProperty lets an approved host create listings again
// @Summary Enable property creation
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/host-requests/{id}/enable-property [post]
func (h *AdminHandler) EnableProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	app, err := h.admin.EnablePropertyCreation(c.UserContext(), id, middleware.CurrentAuth(c))
	if err != nil {
		return h.resp.report(c, "enable property creation", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Property creation enabled", app, "/admin/host-requests/"+id)
}

// AddNote appends an admin note to an application's history
// @Summary Add admin note
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body NoteRequest true "Note"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/host-requests/{id}/notes [post]
func (h *AdminHandler) AddNote(c *fiber.Ctx) error {
	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	id := c.Params("id")
	event, err := h.admin.AddNote(c.UserContext(), id, req.Note, middleware.CurrentAuth(c))
	if err != nil {
		return h.resp.report(c, "add note", err)
	}

	return h.resp.Done(c, fiber.StatusCreated, "Note added", event, "/admin/host-requests/"+id)
}
