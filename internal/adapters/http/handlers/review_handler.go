package handlers

import (
	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviews *services.ReviewService
	resp    *Responder
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService, resp *Responder) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, resp: resp}
}

// Create adds a review to a listing
// @Summary Create review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param body body services.ReviewInput true "Review"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id}/reviews [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	var input services.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	review, err := h.reviews.Create(c.UserContext(), middleware.CurrentAuth(c), id, &input)
	if err != nil {
		return h.resp.report(c, "create review", err)
	}

	return h.resp.Done(c, fiber.StatusCreated, "Review added", review, listingPath(id))
}

// Delete removes the caller's review
// @Summary Delete review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param reviewId path string true "Review ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id}/reviews/{reviewId} [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	if err := h.reviews.Delete(c.UserContext(), middleware.CurrentAuth(c), id, c.Params("reviewId")); err != nil {
		return h.resp.report(c, "delete review", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Review deleted", nil, listingPath(id))
}
