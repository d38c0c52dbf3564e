package handlers

import (
	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles listing endpoints
type ListingHandler struct {
	listings *services.ListingService
	resp     *Responder
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *services.ListingService, resp *Responder) *ListingHandler {
	return &ListingHandler{listings: listings, resp: resp}
}

// Index searches visible listings
// @Summary Search listings
// @Description Visible listings split into promoted and regular, with facets
// @Tags Listings
// @Produce json
// @Param search query string false "Free text"
// @Param category query string false "Category"
// @Param minPrice query string false "Minimum nightly price"
// @Param maxPrice query string false "Maximum nightly price"
// @Param guests query int false "Minimum guests"
// @Param sortBy query string false "newest, price-low, price-high or rating"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /listings [get]
func (h *ListingHandler) Index(c *fiber.Ctx) error {
	ctx := c.UserContext()

	result, err := h.listings.Search(ctx, services.SearchParams{
		Query:    c.Query("search"),
		Category: c.Query("category"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		Guests:   c.QueryInt("guests", 0),
		Sort:     c.Query("sortBy"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return h.resp.report(c, "search listings", err)
	}

	facets, err := h.listings.Facets(ctx)
	if err != nil {
		return h.resp.report(c, "listing facets", err)
	}

	return response.Success(c, "", fiber.Map{
		"promoted": result.Promoted,
		"regular":  result.Regular,
		"meta":     result.Meta,
		"facets":   facets,
		"flash":    h.resp.TakeFlash(c),
	})
}

// Suggestions returns destination suggestions for a partial query
// @Summary Search suggestions
// @Tags Listings
// @Produce json
// @Param query query string true "Partial query, at least two characters"
// @Success 200 {object} response.Response
// @Router /listings/api/search-suggestions [get]
func (h *ListingHandler) Suggestions(c *fiber.Ctx) error {
	suggestions, err := h.listings.Suggestions(c.UserContext(), c.Query("query"))
	if err != nil {
		return h.resp.report(c, "search suggestions", err)
	}
	return response.Success(c, "", suggestions)
}

// CategoryStats returns listing counts per category
// @Summary Category stats
// @Tags Listings
// @Produce json
// @Success 200 {object} response.Response
// @Router /listings/api/category-stats [get]
func (h *ListingHandler) CategoryStats(c *fiber.Ctx) error {
	stats, err := h.listings.CategoryStats(c.UserContext())
	if err != nil {
		return h.resp.report(c, "category stats", err)
	}
	return response.Success(c, "", stats)
}

// PopularDestinations returns the busiest locations
// @Summary Popular destinations
// @Tags Listings
// @Produce json
// @Success 200 {object} response.Response
// @Router /listings/api/popular-destinations [get]
func (h *ListingHandler) PopularDestinations(c *fiber.Ctx) error {
	destinations, err := h.listings.PopularDestinations(c.UserContext())
	if err != nil {
		return h.resp.report(c, "popular destinations", err)
	}
	return response.Success(c, "", destinations)
}

// Show returns one listing with its reviews
// @Summary Get listing
// @Tags Listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [get]
func (h *ListingHandler) Show(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	detail, err := h.listings.Show(c.UserContext(), id)
	if err != nil {
		return h.resp.report(c, "show listing", err)
	}
	return response.Success(c, "", detail)
}

// Create adds a listing
// @Summary Create listing
// @Tags Listings
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body services.ListingInput true "Listing"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var input services.ListingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	images, err := formFiles(c, "image")
	if err != nil {
		return h.resp.report(c, "create listing", err)
	}

	listing, err := h.listings.Create(c.UserContext(), middleware.CurrentAuth(c), &input, images)
	if err != nil {
		return h.resp.report(c, "create listing", err)
	}

	return h.resp.Done(c, fiber.StatusCreated, "New listing created", listing.ToResponse(), listingPath(listing.ID))
}

// Update edits a listing the caller owns
// @Summary Update listing
// @Tags Listings
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param body body services.ListingInput true "Listing"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [put]
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	var input services.ListingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	images, err := formFiles(c, "image")
	if err != nil {
		return h.resp.report(c, "update listing", err)
	}

	listing, err := h.listings.Update(c.UserContext(), middleware.CurrentAuth(c), id, &input, images)
	if err != nil {
		return h.resp.report(c, "update listing", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Listing updated", listing.ToResponse(), listingPath(listing.ID))
}

// Delete removes a listing the caller owns together with its reviews
// @Summary Delete listing
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	if err := h.listings.Delete(c.UserContext(), middleware.CurrentAuth(c), id); err != nil {
		return h.resp.report(c, "delete listing", err)
	}

	return h.resp.Done(c, fiber.StatusOK, "Listing deleted", nil, "/listings")
}

// PromoteOrder opens a payment order to promote a listing
// @Summary Create promotion order
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /listings/{id}/promote/order [post]
func (h *ListingHandler) PromoteOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	order, err := h.listings.CreatePromotionOrder(c.UserContext(), middleware.CurrentAuth(c), id)
	if err != nil {
		return h.resp.report(c, "promotion order", err)
	}
	return response.Success(c, "Promotion order created", order)
}

// PromoteVerify confirms a promotion payment
// @Summary Verify promotion payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param body body services.PaymentConfirmation true "Gateway confirmation"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /listings/{id}/promote/verify [post]
func (h *ListingHandler) PromoteVerify(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.NotFound(c, "Listing not found")
	}

	var confirm services.PaymentConfirmation
	if err := c.BodyParser(&confirm); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	listing, err := h.listings.VerifyPromotion(c.UserContext(), middleware.CurrentAuth(c), id, confirm.OrderID, confirm.PaymentID, confirm.Signature)
	if err != nil {
		return h.resp.report(c, "verify promotion", err)
	}
	return h.resp.Done(c, fiber.StatusOK, "Listing promoted", listing.ToResponse(), listingPath(listing.ID))
}

func listingPath(id uint) string {
	return "/listings/" + uintString(id)
}
