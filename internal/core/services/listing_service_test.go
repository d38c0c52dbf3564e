package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/reviewstore"
	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedListing(t *testing.T, env *testEnv, l *models.Listing) *models.Listing {
	t.Helper()
	if l.OwnerID == "" {
		l.OwnerID = "owner"
	}
	require.NoError(t, env.listings.Create(context.Background(), l))
	return l
}

func sampleInput() *ListingInput {
	return &ListingInput{
		Title:       "Cliffside villa",
		Description: "Sea views from every room",
		Location:    "Goa",
		Country:     "India",
		Price:       4200,
		Guests:      6,
		Category:    "beaches",
		Amenities:   []string{"wifi", "pool"},
	}
}

func TestCreateListing(t *testing.T) {
	env := newTestEnv(t)
	point := domain.NewPoint(73.8278, 15.4989)
	env.geocoder.point = &point

	images := []Upload{{Filename: "villa.jpg", ContentType: "image/jpeg", Content: []byte("img")}}
	listing, err := env.listingService().Create(context.Background(), guest("owner"), sampleInput(), images)
	require.NoError(t, err)

	assert.Equal(t, "owner", listing.OwnerID)
	assert.Nil(t, listing.HostID)
	assert.Equal(t, point, listing.Geometry())
	assert.Equal(t, "flexible", listing.Cancellation)
	assert.Equal(t, []string{"wifi", "pool"}, listing.Amenities.Data())
	require.Len(t, listing.Images.Data(), 1)
	assert.True(t, strings.HasPrefix(listing.Images.Data()[0].URL, "https://i.ibb.co/"))
}

func TestCreateListingGeocoderFailureFallsBack(t *testing.T) {
	env := newTestEnv(t)
	env.geocoder.err = errors.New("mapbox unavailable")

	listing, err := env.listingService().Create(context.Background(), guest("owner"), sampleInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackPoint(), listing.Geometry())
}

func TestCreateListingValidation(t *testing.T) {
	env := newTestEnv(t)
	input := sampleInput()
	input.Title = ""
	input.Category = "spaceships"

	_, err := env.listingService().Create(context.Background(), guest("owner"), input, nil)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "category")
	assert.Empty(t, env.listings.items)
}

func TestCreateListingRequiresApprovedHost(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, validApplication())

	_, err := env.listingService().Create(context.Background(), guest("user-1"), sampleInput(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.listingService().Create(context.Background(), domain.Anonymous, sampleInput(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCreateListingFollowsPropertyCreationFlag(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())
	ctx := context.Background()

	app.Status = domain.StatusApproved
	app.CanCreateProperty = false
	_, err := env.listingService().Create(ctx, guest("user-1"), sampleInput(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	admin := guest("user-1")
	admin.Role = domain.RoleAdmin
	_, err = env.listingService().Create(ctx, admin, sampleInput(), nil)
	require.NoError(t, err)

	app.CanCreateProperty = true
	listing, err := env.listingService().Create(ctx, guest("user-1"), sampleInput(), nil)
	require.NoError(t, err)
	require.NotNil(t, listing.HostID)
	assert.Equal(t, app.ID, *listing.HostID)
}

func TestSearchHidesUnapprovedHosts(t *testing.T) {
	env := newTestEnv(t)
	app := submit(t, env, validApplication())

	seedListing(t, env, &models.Listing{Title: "Public", Price: 100})
	seedListing(t, env, &models.Listing{Title: "Hidden", Price: 100, HostID: &app.ID})

	page, err := env.listingService().Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	require.Len(t, page.Regular, 1)
	assert.Equal(t, "Public", page.Regular[0].Title)
	assert.Equal(t, int64(1), page.Meta.Total)

	app.Status = domain.StatusApproved
	page, err = env.listingService().Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Len(t, page.Regular, 2)
}

func TestSearchShowsListingsOfDeletedApplications(t *testing.T) {
	env := newTestEnv(t)
	gone := uint(404)
	seedListing(t, env, &models.Listing{Title: "Orphaned", Price: 100, HostID: &gone})

	page, err := env.listingService().Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	require.Len(t, page.Regular, 1)
	assert.Equal(t, "Orphaned", page.Regular[0].Title)
}

func TestSearchSplitsPromoted(t *testing.T) {
	env := newTestEnv(t)
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-time.Hour)

	seedListing(t, env, &models.Listing{Title: "A", Price: 300})
	seedListing(t, env, &models.Listing{Title: "B", Price: 100, PromotionExpiresAt: &future})
	seedListing(t, env, &models.Listing{Title: "C", Price: 200, PromotionExpiresAt: &past})

	page, err := env.listingService().Search(context.Background(), SearchParams{Sort: "price-low"})
	require.NoError(t, err)

	require.Len(t, page.Promoted, 1)
	assert.Equal(t, "B", page.Promoted[0].Title)
	require.Len(t, page.Regular, 2)
	assert.Equal(t, "C", page.Regular[0].Title)
	assert.Equal(t, "A", page.Regular[1].Title)
}

func TestSearchRanksPromotedAcrossPages(t *testing.T) {
	env := newTestEnv(t)
	future := time.Now().Add(24 * time.Hour)

	seedListing(t, env, &models.Listing{Title: "Cheap", Price: 100})
	seedListing(t, env, &models.Listing{Title: "Mid", Price: 200})
	seedListing(t, env, &models.Listing{Title: "Boosted", Price: 900, PromotionExpiresAt: &future})

	page, err := env.listingService().Search(context.Background(), SearchParams{Sort: "price-low", Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Promoted, 1)
	assert.Equal(t, "Boosted", page.Promoted[0].Title)
	assert.Empty(t, page.Regular)
	assert.Equal(t, int64(3), page.Meta.Total)

	page, err = env.listingService().Search(context.Background(), SearchParams{Sort: "price-low", Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Regular, 1)
	assert.Equal(t, "Cheap", page.Regular[0].Title)
}

func TestSearchIgnoresBadFilters(t *testing.T) {
	env := newTestEnv(t)
	seedListing(t, env, &models.Listing{Title: "A", Price: 300, Category: "rooms"})

	page, err := env.listingService().Search(context.Background(), SearchParams{
		Category: "not-a-category",
		MinPrice: "cheap",
		MaxPrice: "",
	})
	require.NoError(t, err)
	assert.Len(t, page.Regular, 1)

	page, err = env.listingService().Search(context.Background(), SearchParams{MinPrice: "500"})
	require.NoError(t, err)
	assert.Empty(t, page.Regular)
}

func TestDeleteListingCascadesReviews(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 100})
	other := seedListing(t, env, &models.Listing{Title: "B", Price: 100})
	ctx := context.Background()

	for _, id := range []uint{listing.ID, listing.ID, other.ID} {
		require.NoError(t, env.reviews.Create(ctx, &reviewstore.Review{ListingID: listingKey(id), AuthorID: "guest", Rating: 5, Comment: "great"}))
	}

	err := env.listingService().Delete(ctx, guest("owner"), listing.ID)
	require.NoError(t, err)

	_, err = env.listings.GetByID(ctx, listing.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	remaining, err := env.reviews.ListByListing(ctx, listingKey(listing.ID))
	require.NoError(t, err)
	assert.Empty(t, remaining)
	kept, err := env.reviews.ListByListing(ctx, listingKey(other.ID))
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestOwnerOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 100, Location: "Goa"})
	svc := env.listingService()

	err := svc.Delete(context.Background(), guest("intruder"), listing.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Update(context.Background(), guest("intruder"), listing.ID, sampleInput(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = svc.Delete(context.Background(), guest("owner"), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateListingRegeocodesOnMove(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 100, Location: "Goa"})
	point := domain.NewPoint(77.1734, 31.1048)
	env.geocoder.point = &point

	input := sampleInput()
	updated, err := env.listingService().Update(context.Background(), guest("owner"), listing.ID, input, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, env.geocoder.calls)
	assert.Equal(t, "Cliffside villa", updated.Title)

	input = sampleInput()
	input.Location = "Shimla"
	updated, err = env.listingService().Update(context.Background(), guest("owner"), listing.ID, input, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, env.geocoder.calls)
	assert.Equal(t, point, updated.Geometry())
}

func TestShowIncludesReviews(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 100})
	ctx := context.Background()
	require.NoError(t, env.reviews.Create(ctx, &reviewstore.Review{ListingID: listingKey(listing.ID), Comment: "first", Rating: 4}))
	require.NoError(t, env.reviews.Create(ctx, &reviewstore.Review{ListingID: listingKey(listing.ID), Comment: "second", Rating: 5}))

	detail, err := env.listingService().Show(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, detail.Reviews, 2)
	assert.Equal(t, "second", detail.Reviews[0].Comment)
}

func TestFacetsFallback(t *testing.T) {
	env := newTestEnv(t)
	facets, err := env.listingService().Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(0), facets.PriceStats.Min)
	assert.Equal(t, float64(1000), facets.PriceStats.Max)
	assert.Equal(t, float64(100), facets.PriceStats.Avg)
	assert.NotNil(t, facets.CategoryCounts)
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t)
	seedListing(t, env, &models.Listing{Title: "A", Location: "Manali, Himachal"})
	svc := env.listingService()
	ctx := context.Background()

	out, err := svc.Suggestions(ctx, "m")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = svc.Suggestions(ctx, "man")
	require.NoError(t, err)
	assert.Equal(t, []string{"Manali, Himachal"}, out)

	out, err = svc.Suggestions(ctx, "zz")
	require.NoError(t, err)
	assert.Len(t, out, SuggestionLimit)
	assert.Equal(t, domain.PopularPlaces[0], out[0])
}

func TestPromotion(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 100})
	svc := env.listingService()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	order, err := svc.CreatePromotionOrder(ctx, guest("owner"), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(PromotionFee), order.Amount)
	assert.True(t, strings.HasPrefix(env.gateway.receipts[0], "receipt_promotion_"))

	_, err = svc.CreatePromotionOrder(ctx, guest("intruder"), listing.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.VerifyPromotion(ctx, guest("owner"), listing.ID, order.OrderID, "pay_1", "forged")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Nil(t, listing.PromotionExpiresAt)

	sig := env.gateway.Sign(order.OrderID, "pay_1")
	promoted, err := svc.VerifyPromotion(ctx, guest("owner"), listing.ID, order.OrderID, "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, now.Add(PromotionPeriod), *promoted.PromotionExpiresAt)

	// replaying the same payment does not extend again
	promoted, err = svc.VerifyPromotion(ctx, guest("owner"), listing.ID, order.OrderID, "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, now.Add(PromotionPeriod), *promoted.PromotionExpiresAt)

	// a second purchase extends from the current expiry
	next, err := svc.CreatePromotionOrder(ctx, guest("owner"), listing.ID)
	require.NoError(t, err)
	promoted, err = svc.VerifyPromotion(ctx, guest("owner"), listing.ID, next.OrderID, "pay_2", env.gateway.Sign(next.OrderID, "pay_2"))
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*PromotionPeriod), *promoted.PromotionExpiresAt)

	svc.now = func() time.Time { return now.Add(30 * 24 * time.Hour) }
	n, err := svc.ClearExpiredPromotions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Nil(t, listing.PromotionExpiresAt)
}

func TestVerifyPromotionMustMatchOrder(t *testing.T) {
	env := newTestEnv(t)
	listing := seedListing(t, env, &models.Listing{Title: "A", Price: 100})
	other := seedListing(t, env, &models.Listing{Title: "B", Price: 100})
	svc := env.listingService()
	ctx := context.Background()

	// a cheap booking order cannot pay for a promotion
	booking, err := env.bookingService().CreateOrder(ctx, guest("owner"), stay(listing.ID, 1))
	require.NoError(t, err)
	_, err = svc.VerifyPromotion(ctx, guest("owner"), listing.ID, booking.OrderID, "pay_1", env.gateway.Sign(booking.OrderID, "pay_1"))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)

	// nor can an order opened for another listing
	order, err := svc.CreatePromotionOrder(ctx, guest("owner"), other.ID)
	require.NoError(t, err)
	_, err = svc.VerifyPromotion(ctx, guest("owner"), listing.ID, order.OrderID, "pay_2", env.gateway.Sign(order.OrderID, "pay_2"))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)

	// a paid order does not settle a second payment
	_, err = svc.VerifyPromotion(ctx, guest("owner"), other.ID, order.OrderID, "pay_2", env.gateway.Sign(order.OrderID, "pay_2"))
	require.NoError(t, err)
	_, err = svc.VerifyPromotion(ctx, guest("owner"), other.ID, order.OrderID, "pay_3", env.gateway.Sign(order.OrderID, "pay_3"))
	assert.ErrorIs(t, err, domain.ErrOrderMismatch)

	assert.Nil(t, listing.PromotionExpiresAt)
	assert.NotNil(t, other.PromotionExpiresAt)
}
