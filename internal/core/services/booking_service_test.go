package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"homyhive/internal/adapters/external/razorpay"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stay(listingID uint, nights int) BookingRequest {
	in := time.Date(2026, 12, 20, 14, 0, 0, 0, time.UTC)
	return BookingRequest{
		ListingID: listingID,
		CheckIn:   in,
		CheckOut:  in.Add(time.Duration(nights) * 24 * time.Hour),
		Guests:    2,
	}
}

func TestNightsAndPricing(t *testing.T) {
	in := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, Nights(in, in.Add(72*time.Hour)))
	assert.Equal(t, 1, Nights(in, in.Add(2*time.Hour)))
	assert.Equal(t, 2, Nights(in.Add(48*time.Hour), in))
	assert.Equal(t, 0, Nights(in, in))

	subtotal, total := PriceStay(1000, 3)
	assert.Equal(t, float64(3000), subtotal)
	assert.Equal(t, float64(3360), total)

	fee, host := SplitPayment(3360)
	assert.Equal(t, 336.0, fee)
	assert.Equal(t, 3024.0, host)

	fee, host = SplitPayment(1234.5)
	assert.Equal(t, 123.45, fee)
	assert.Equal(t, 1111.05, host)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 1000, Guests: 4})
	svc := env.bookingService()

	quote, _, err := svc.Quote(context.Background(), stay(listing.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, float64(3000), quote.Subtotal)
	assert.Equal(t, float64(3360), quote.Total)
	assert.Equal(t, float64(360), quote.Taxes)

	_, _, err = svc.Quote(context.Background(), stay(listing.ID, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidDates)

	crowd := stay(listing.ID, 2)
	crowd.Guests = 5
	_, _, err = svc.Quote(context.Background(), crowd)
	assert.True(t, domain.IsValidation(err))

	_, _, err = svc.Quote(context.Background(), stay(999, 2))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteFreeListingIsInvalid(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "Free", Price: 0})

	_, _, err := env.bookingService().Quote(context.Background(), stay(listing.ID, 2))
	assert.ErrorIs(t, err, domain.ErrInvalidDates)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 1000})

	order, err := env.bookingService().CreateOrder(context.Background(), guest("guest"), stay(listing.ID, 3))
	require.NoError(t, err)

	assert.Equal(t, int64(336000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, []int64{336000}, env.gateway.amounts)
	assert.True(t, strings.HasPrefix(env.gateway.receipts[0], "receipt_booking_"))

	env.gateway.fail = domain.ErrGateway
	_, err = env.bookingService().CreateOrder(context.Background(), guest("guest"), stay(listing.ID, 3))
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestVerifyPaymentTamperedSignature(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 1000})
	svc := env.bookingService()
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, guest("guest"), stay(listing.ID, 3))
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, guest("guest"), stay(listing.ID, 3))
	require.NoError(t, err)

	sig := env.gateway.Sign(first.OrderID, "pay_1")
	otherSecret := razorpay.NewClient("http://gateway.invalid", "rzp_test_key", "another_secret", time.Second)

	cases := []struct {
		name    string
		confirm PaymentConfirmation
	}{
		{"last character changed", PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: sig[:len(sig)-1] + "x"}},
		{"ids swapped", PaymentConfirmation{OrderID: "pay_1", PaymentID: first.OrderID, Signature: sig}},
		{"signed for another order", PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: env.gateway.Sign(second.OrderID, "pay_1")}},
		{"signed for another payment", PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: env.gateway.Sign(first.OrderID, "pay_2")}},
		{"uppercase", PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: strings.ToUpper(sig)}},
		{"blank", PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: "   "}},
		{"wrong secret", PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: otherSecret.Sign(first.OrderID, "pay_1")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.VerifyPayment(ctx, guest("guest"), tc.confirm, stay(listing.ID, 3))
			assert.Error(t, err)
			assert.Empty(t, env.bookings.items)
		})
	}

	_, err = svc.VerifyPayment(ctx, guest("guest"), PaymentConfirmation{OrderID: first.OrderID, PaymentID: "pay_1", Signature: strings.ToUpper(sig)}, stay(listing.ID, 3))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyPaymentMustMatchOrder(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 1000, Guests: 6})
	other := seedListing(t, env, &models.Listing{Title: "B", Price: 5000})
	svc := env.bookingService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, guest("guest"), stay(listing.ID, 1))
	require.NoError(t, err)
	confirm := PaymentConfirmation{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: env.gateway.Sign(order.OrderID, "pay_1"),
	}

	crowd := stay(listing.ID, 1)
	crowd.Guests = 6
	for name, req := range map[string]BookingRequest{
		"longer stay":   stay(listing.ID, 30),
		"pricier home":  stay(other.ID, 1),
		"more guests":   crowd,
		"shifted dates": {ListingID: listing.ID, CheckIn: stay(listing.ID, 1).CheckIn.Add(24 * time.Hour), CheckOut: stay(listing.ID, 2).CheckOut, Guests: 2},
	} {
		_, err := svc.VerifyPayment(ctx, guest("guest"), confirm, req)
		assert.ErrorIs(t, err, domain.ErrOrderMismatch, name)
	}

	_, err = svc.VerifyPayment(ctx, guest("someone-else"), confirm, stay(listing.ID, 1))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)

	unknown := PaymentConfirmation{OrderID: "order_404", PaymentID: "pay_1", Signature: env.gateway.Sign("order_404", "pay_1")}
	_, err = svc.VerifyPayment(ctx, guest("guest"), unknown, stay(listing.ID, 1))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)
	assert.Empty(t, env.bookings.items)

	booking, err := svc.VerifyPayment(ctx, guest("guest"), confirm, stay(listing.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, booking.Nights)
	assert.Equal(t, float64(1120), booking.TotalAmount)
	assert.Equal(t, models.OrderPaid, env.orders.items[order.OrderID].Status)

	// a paid order cannot settle a second payment
	again := PaymentConfirmation{OrderID: order.OrderID, PaymentID: "pay_2", Signature: env.gateway.Sign(order.OrderID, "pay_2")}
	_, err = svc.VerifyPayment(ctx, guest("guest"), again, stay(listing.ID, 1))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)
	assert.Len(t, env.bookings.items, 1)
}

func TestVerifyPaymentRejectsRepricedStay(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 1000})
	svc := env.bookingService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, guest("guest"), stay(listing.ID, 2))
	require.NoError(t, err)
	listing.Price = 4000

	confirm := PaymentConfirmation{OrderID: order.OrderID, PaymentID: "pay_1", Signature: env.gateway.Sign(order.OrderID, "pay_1")}
	_, err = svc.VerifyPayment(ctx, guest("guest"), confirm, stay(listing.ID, 2))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)
	assert.Empty(t, env.bookings.items)
}

func TestVerifyPaymentCreatesBookingOnce(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 1000, OwnerID: "host-1"})
	svc := env.bookingService()
	order, err := svc.CreateOrder(context.Background(), guest("guest"), stay(listing.ID, 3))
	require.NoError(t, err)
	confirm := PaymentConfirmation{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: env.gateway.Sign(order.OrderID, "pay_1"),
	}

	booking, err := svc.VerifyPayment(context.Background(), guest("guest"), confirm, stay(listing.ID, 3))
	require.NoError(t, err)

	assert.Equal(t, order.OrderID, booking.OrderID)
	assert.Equal(t, float64(3360), booking.TotalAmount)
	assert.Equal(t, 336.0, booking.PlatformFee)
	assert.Equal(t, 3024.0, booking.HostAmount)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, booking.BookingStatus)
	assert.Equal(t, "host-1", booking.HostID)
	assert.Equal(t, "guest", booking.UserID)

	replay, err := svc.VerifyPayment(context.Background(), guest("guest"), confirm, stay(listing.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, booking.ID, replay.ID)
	assert.Len(t, env.bookings.items, 1)

	// guest and host each get an in-app notification
	users := map[string]bool{}
	for _, n := range env.notifications.items {
		users[n.UserID] = true
	}
	assert.True(t, users["guest"])
	assert.True(t, users["host-1"])

	mine, err := svc.MyBookings(context.Background(), guest("guest"))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestVerifyPaymentRequiresFields(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.bookingService().VerifyPayment(context.Background(), guest("guest"), PaymentConfirmation{OrderID: "order_1"}, stay(1, 1))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"razorpay_payment_id", "razorpay_signature"}, verr.Fields)

	_, err = env.bookingService().VerifyPayment(context.Background(), domain.Anonymous, PaymentConfirmation{}, stay(1, 1))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
