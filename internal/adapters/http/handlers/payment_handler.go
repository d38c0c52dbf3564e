package handlers

import (
	"strings"
	"time"

	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/core/domain"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// dateLayouts accepted for check-in and check-out
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// PaymentHandler handles quotes, booking orders and payment verification
type PaymentHandler struct {
	bookings *services.BookingService
	resp     *Responder
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(bookings *services.BookingService, resp *Responder) *PaymentHandler {
	return &PaymentHandler{bookings: bookings, resp: resp}
}

// StayRequest identifies a stay as posted by the booking form
type StayRequest struct {
	ListingID uint   `json:"listingId" form:"listingId"`
	CheckIn   string `json:"checkIn" form:"checkIn"`
	CheckOut  string `json:"checkOut" form:"checkOut"`
	Guests    int    `json:"guests" form:"guests"`
}

// VerifyPaymentRequest is the gateway confirmation plus the stay it pays for
type VerifyPaymentRequest struct {
	services.PaymentConfirmation
	StayRequest
}

func (r StayRequest) booking() (services.BookingRequest, error) {
	checkIn, ok := parseDate(r.CheckIn)
	if !ok {
		return services.BookingRequest{}, domain.ErrInvalidDates
	}
	checkOut, ok := parseDate(r.CheckOut)
	if !ok {
		return services.BookingRequest{}, domain.ErrInvalidDates
	}
	return services.BookingRequest{
		ListingID: r.ListingID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    r.Guests,
	}, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Quote prices a stay
// @Summary Quote a stay
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body StayRequest true "Stay"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /quote [post]
func (h *PaymentHandler) Quote(c *fiber.Ctx) error {
	var req StayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	booking, err := req.booking()
	if err != nil {
		return h.resp.Fail(c, err)
	}

	quote, _, err := h.bookings.Quote(c.UserContext(), booking)
	if err != nil {
		return h.resp.report(c, "quote", err)
	}
	return response.Success(c, "", quote)
}

// CreateOrder opens a payment order for a stay
// @Summary Create booking order
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StayRequest true "Stay"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /create-order [post]
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req StayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	booking, err := req.booking()
	if err != nil {
		return h.resp.Fail(c, err)
	}

	order, err := h.bookings.CreateOrder(c.UserContext(), middleware.CurrentAuth(c), booking)
	if err != nil {
		return h.resp.report(c, "create order", err)
	}
	return response.Success(c, "Order created", order)
}

// VerifyPayment confirms a payment and records the booking
// @Summary Verify booking payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyPaymentRequest true "Gateway confirmation and stay"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	booking, err := req.booking()
	if err != nil {
		return h.resp.Fail(c, err)
	}

	confirmed, err := h.bookings.VerifyPayment(c.UserContext(), middleware.CurrentAuth(c), req.PaymentConfirmation, booking)
	if err != nil {
		return h.resp.report(c, "verify payment", err)
	}
	return h.resp.Done(c, fiber.StatusCreated, "Booking confirmed", confirmed, "/user/bookings")
}

// MyBookings lists the caller's bookings
// @Summary My bookings
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /user/bookings [get]
func (h *PaymentHandler) MyBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.MyBookings(c.UserContext(), middleware.CurrentAuth(c))
	if err != nil {
		return h.resp.report(c, "my bookings", err)
	}
	return response.Success(c, "", bookings)
}
