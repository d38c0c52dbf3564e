package handlers

import (
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the read-only admin pages
type DashboardHandler struct {
	dashboardService *services.DashboardService
	resp             *Responder
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, resp *Responder) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		resp:             resp,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Application counts by status, recent applications and totals (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.Dashboard(c.UserContext())
	if err != nil {
		return h.resp.report(c, "admin dashboard", err)
	}

	return response.Success(c, "Admin dashboard retrieved successfully", data)
}

// GetHostRequests pages through host applications
// @Summary List host requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter or all"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/host-requests [get]
func (h *DashboardHandler) GetHostRequests(c *fiber.Ctx) error {
	data, err := h.dashboardService.HostRequests(c.UserContext(), c.Query("status", "all"), c.QueryInt("page", 1))
	if err != nil {
		return h.resp.report(c, "host requests", err)
	}

	return response.Success(c, "", data)
}

// GetHostRequest returns one application with its history
// @Summary Get host request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/host-requests/{id} [get]
func (h *DashboardHandler) GetHostRequest(c *fiber.Ctx) error {
	data, err := h.dashboardService.ApplicationDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.resp.report(c, "host request details", err)
	}

	return response.Success(c, "", data)
}

// GetPendingApprovals lists applications waiting for an admin decision
// @Summary Pending approvals
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/pending-approvals [get]
func (h *DashboardHandler) GetPendingApprovals(c *fiber.Ctx) error {
	data, err := h.dashboardService.PendingApprovals(c.UserContext())
	if err != nil {
		return h.resp.report(c, "pending approvals", err)
	}

	return response.Success(c, "", data)
}
