package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/metrics"
)

// Booking pricing
const (
	TaxRate         = 0.12
	PlatformFeeRate = 0.10
)

// BookingRequest identifies a stay
type BookingRequest struct {
	ListingID uint      `json:"listingId"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Guests    int       `json:"guests"`
}

// Quote is the server-side price of a stay
type Quote struct {
	ListingID uint    `json:"listingId"`
	Nights    int     `json:"nights"`
	Guests    int     `json:"guests"`
	Price     float64 `json:"pricePerNight"`
	Subtotal  float64 `json:"subtotal"`
	Taxes     float64 `json:"taxes"`
	Total     float64 `json:"total"`
}

// PaymentConfirmation is what the checkout widget posts back
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature"`
}

// BookingNotifier is told about confirmed bookings
type BookingNotifier interface {
	NotifyBookingConfirmed(ctx context.Context, booking *models.Booking, listing *models.Listing, guest domain.AuthContext)
}

// BookingService prices stays and records paid bookings
type BookingService struct {
	bookings repositories.BookingRepository
	listings repositories.ListingRepository
	orders   repositories.PaymentOrderRepository
	gateway  PaymentGateway
	notifier BookingNotifier
	log      logger.Logger
	now      func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings repositories.BookingRepository,
	listings repositories.ListingRepository,
	orders repositories.PaymentOrderRepository,
	gateway PaymentGateway,
	notifier BookingNotifier,
	log logger.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		listings: listings,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Nights counts started 24h periods between checkIn and checkOut
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

// PriceStay computes subtotal and the taxed total for nights at price
func PriceStay(price float64, nights int) (subtotal, total float64) {
	subtotal = price * float64(nights)
	total = math.Round(subtotal * (1 + TaxRate))
	return subtotal, total
}

// SplitPayment splits total into the platform fee and the host share
func SplitPayment(total float64) (fee, host float64) {
	fee = math.Round(total*PlatformFeeRate*100) / 100
	return fee, math.Round((total-fee)*100) / 100
}

// Quote prices a stay
func (s *BookingService) Quote(ctx context.Context, req BookingRequest) (*Quote, *models.Listing, error) {
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, nil, domain.ErrInvalidDates
	}
	if req.Guests < 1 {
		req.Guests = 1
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, nil, err
	}
	if listing.Guests > 0 && req.Guests > listing.Guests {
		return nil, nil, domain.NewValidationError(
			fmt.Sprintf("this listing hosts at most %d guests", listing.Guests), "guests")
	}

	nights := Nights(req.CheckIn, req.CheckOut)
	subtotal, total := PriceStay(listing.Price, nights)
	if total <= 0 {
		return nil, nil, domain.ErrInvalidDates
	}

	return &Quote{
		ListingID: listing.ID,
		Nights:    nights,
		Guests:    req.Guests,
		Price:     listing.Price,
		Subtotal:  subtotal,
		Taxes:     total - subtotal,
		Total:     total,
	}, listing, nil
}

// BookingOrder is a gateway order together with its quote
type BookingOrder struct {
	OrderView
	Quote *Quote `json:"quote"`
}

// CreateOrder opens a gateway order for the quoted total
func (s *BookingService) CreateOrder(ctx context.Context, auth domain.AuthContext, req BookingRequest) (*BookingOrder, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	quote, _, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("receipt_booking_%d", s.now().Unix())
	order, err := s.gateway.CreateOrder(ctx, amountInPaise(quote.Total), Currency, receipt)
	if err != nil {
		metrics.RecordUpstreamFailure("payment")
		return nil, err
	}

	checkIn, checkOut := req.CheckIn.Truncate(time.Second), req.CheckOut.Truncate(time.Second)
	if err := s.orders.Create(ctx, &models.PaymentOrder{
		OrderID:     order.ID,
		Purpose:     models.OrderPurposeBooking,
		PrincipalID: auth.Principal.String(),
		ListingID:   quote.ListingID,
		CheckIn:     &checkIn,
		CheckOut:    &checkOut,
		Guests:      quote.Guests,
		Amount:      order.Amount,
		Currency:    order.Currency,
	}); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	return &BookingOrder{
		OrderView: OrderView{OrderID: order.ID, Amount: order.Amount, Currency: order.Currency, Key: s.gateway.KeyID()},
		Quote:     quote,
	}, nil
}

// VerifyPayment checks the checkout signature and records the booking for
// the stay its order was opened for. The stay in req must match that order.
// A replayed payment id returns the booking already stored for it.
func (s *BookingService) VerifyPayment(ctx context.Context, auth domain.AuthContext, confirm PaymentConfirmation, req BookingRequest) (*models.Booking, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var missing []string
	if strings.TrimSpace(confirm.OrderID) == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if strings.TrimSpace(confirm.PaymentID) == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if strings.TrimSpace(confirm.Signature) == "" {
		missing = append(missing, "razorpay_signature")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("missing payment details", missing...)
	}

	if !s.gateway.VerifySignature(confirm.OrderID, confirm.PaymentID, confirm.Signature) {
		metrics.RecordSignatureFailure("booking")
		s.log.Warn("payment signature mismatch", map[string]interface{}{
			"orderId":   confirm.OrderID,
			"paymentId": confirm.PaymentID,
		})
		return nil, domain.ErrInvalidSignature
	}

	principal := auth.Principal.String()
	if existing, err := s.bookings.GetByPaymentID(ctx, confirm.PaymentID); err == nil {
		if existing.OrderID != confirm.OrderID || existing.UserID != principal {
			return nil, fmt.Errorf("%w: payment %s settled another order", domain.ErrOrderMismatch, confirm.PaymentID)
		}
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	order, err := claimOrder(ctx, s.orders, confirm.OrderID, confirm.PaymentID, models.OrderPurposeBooking, principal)
	if err != nil {
		return nil, err
	}
	if !sameStay(order, req) {
		s.log.Warn("payment stay does not match its order", map[string]interface{}{
			"orderId":   confirm.OrderID,
			"paymentId": confirm.PaymentID,
		})
		return nil, fmt.Errorf("%w: stay differs from order %s", domain.ErrOrderMismatch, order.OrderID)
	}
	req = BookingRequest{ListingID: order.ListingID, CheckIn: *order.CheckIn, CheckOut: *order.CheckOut, Guests: order.Guests}

	quote, listing, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if amountInPaise(quote.Total) != order.Amount {
		return nil, fmt.Errorf("%w: order %s was paid for %d, stay now costs %d",
			domain.ErrOrderMismatch, order.OrderID, order.Amount, amountInPaise(quote.Total))
	}
	fee, hostAmount := SplitPayment(quote.Total)

	booking := &models.Booking{
		UserID:        principal,
		ListingID:     listing.ID,
		HostID:        listing.OwnerID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Nights:        quote.Nights,
		Guests:        quote.Guests,
		TotalAmount:   quote.Total,
		PlatformFee:   fee,
		HostAmount:    hostAmount,
		PaymentID:     confirm.PaymentID,
		OrderID:       confirm.OrderID,
		PaymentStatus: models.PaymentCompleted,
		BookingStatus: models.BookingConfirmed,
	}

	// A paid order with this payment id is a retry after a failed insert.
	claimed, err := s.orders.MarkPaid(ctx, order.OrderID, confirm.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	if !claimed && order.PaymentID != confirm.PaymentID {
		return nil, fmt.Errorf("%w: order %s is already paid", domain.ErrOrderMismatch, order.OrderID)
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return s.bookings.GetByPaymentID(ctx, confirm.PaymentID)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.RecordBookingConfirmed()
	s.log.Info("booking confirmed", map[string]interface{}{
		"bookingId": booking.ID,
		"listingId": listing.ID,
		"paymentId": booking.PaymentID,
	})

	s.notifier.NotifyBookingConfirmed(ctx, booking, listing, auth)
	return booking, nil
}

// sameStay reports whether req names the stay order was opened for
func sameStay(order *models.PaymentOrder, req BookingRequest) bool {
	if order.CheckIn == nil || order.CheckOut == nil {
		return false
	}
	guests := req.Guests
	if guests < 1 {
		guests = 1
	}
	return order.ListingID == req.ListingID &&
		order.CheckIn.Equal(req.CheckIn.Truncate(time.Second)) &&
		order.CheckOut.Equal(req.CheckOut.Truncate(time.Second)) &&
		order.Guests == guests
}

// MyBookings lists the bookings of auth's principal
func (s *BookingService) MyBookings(ctx context.Context, auth domain.AuthContext) ([]*models.Booking, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.bookings.ListByUser(ctx, auth.Principal.String())
}
