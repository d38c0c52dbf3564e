package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/adapters/reviewstore"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/metrics"
	"homyhive/internal/pkg/pagination"
	"homyhive/internal/pkg/validator"

	"gorm.io/datatypes"
)

// Listing service limits
const (
	SuggestionMinLength     = 2
	SuggestionLimit         = 8
	PopularDestinationLimit = 12
	PopularLocationLimit    = 10
	PromotionFee            = 50000
	PromotionPeriod         = 7 * 24 * time.Hour
)

// Facet fallbacks for an empty catalogue
const (
	fallbackMinPrice = 0
	fallbackMaxPrice = 1000
	fallbackAvgPrice = 100
)

// ListingInput is the create and update payload of a listing
type ListingInput struct {
	Title        string   `json:"title" form:"title"`
	Description  string   `json:"description" form:"description"`
	Location     string   `json:"location" form:"location"`
	Country      string   `json:"country" form:"country"`
	Price        float64  `json:"price" form:"price"`
	Guests       int      `json:"guests" form:"guests"`
	PropertyType string   `json:"propertyType,omitempty" form:"propertyType"`
	Category     string   `json:"category,omitempty" form:"category"`
	Cancellation string   `json:"cancellation,omitempty" form:"cancellation"`
	Amenities    []string `json:"amenities,omitempty" form:"amenities"`
}

func (in *ListingInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Country = strings.TrimSpace(in.Country)
	if in.Guests == 0 {
		in.Guests = domain.DefaultListingGuests
	}
}

// ListingDetail is a listing with its reviews, newest first
type ListingDetail struct {
	Listing *models.ListingResponse `json:"listing"`
	Reviews []reviewstore.Review    `json:"reviews"`
}

// SearchParams are the raw query parameters of a listing search
type SearchParams struct {
	Query    string
	Category string
	MinPrice string
	MaxPrice string
	Guests   int
	Sort     string
	Page     int
	Limit    int
}

// SearchResult is one page of visible listings split by promotion
type SearchResult struct {
	Promoted []*models.ListingResponse `json:"promoted"`
	Regular  []*models.ListingResponse `json:"regular"`
	Meta     *pagination.Meta          `json:"meta"`
}

// ListingService manages listings and their discovery
type ListingService struct {
	listings repositories.ListingRepository
	apps     repositories.HostApplicationRepository
	reviews  reviewstore.Store
	uploader ImageUploader
	geocoder Geocoder
	orders   repositories.PaymentOrderRepository
	gateway  PaymentGateway
	notifier PromotionNotifier
	validate *validator.Validator
	log      logger.Logger
	now      func() time.Time
}

// PromotionNotifier is told when a promotion starts
type PromotionNotifier interface {
	NotifyPromotionActive(ctx context.Context, listing *models.Listing)
}

// NewListingService creates a new listing service
func NewListingService(
	listings repositories.ListingRepository,
	apps repositories.HostApplicationRepository,
	reviews reviewstore.Store,
	uploader ImageUploader,
	geocoder Geocoder,
	orders repositories.PaymentOrderRepository,
	gateway PaymentGateway,
	notifier PromotionNotifier,
	validate *validator.Validator,
	log logger.Logger,
) *ListingService {
	return &ListingService{
		listings: listings,
		apps:     apps,
		reviews:  reviews,
		uploader: uploader,
		geocoder: geocoder,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// ResolveGeometry returns explicit when set, otherwise geocodes location.
// Any geocoder failure yields the fallback point.
func ResolveGeometry(ctx context.Context, geocoder Geocoder, log logger.Logger, location string, explicit *domain.Geometry) domain.Geometry {
	if explicit != nil && (explicit.Coordinates[0] != 0 || explicit.Coordinates[1] != 0) {
		return *explicit
	}
	if geocoder == nil || strings.TrimSpace(location) == "" {
		return domain.FallbackPoint()
	}

	g, err := geocoder.Geocode(ctx, location)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.RecordUpstreamFailure("geocoder")
			log.Warn("geocoding failed, using fallback point", map[string]interface{}{
				"location": location,
				"error":    err.Error(),
			})
		}
		return domain.FallbackPoint()
	}
	return *g
}

// Create stores a new listing owned by auth. Only hosts whose application
// grants property creation and users who never applied to host may create
// listings directly.
func (s *ListingService) Create(ctx context.Context, auth domain.AuthContext, input *ListingInput, images []Upload) (*models.Listing, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var hostID *uint
	app, err := s.apps.GetByPrincipal(ctx, auth.Principal.String())
	switch {
	case err == nil:
		if !app.CanCreateProperty && !auth.IsAdmin() {
			return nil, fmt.Errorf("%w: property creation is not enabled for this host (application is %s)", domain.ErrUnauthorized, app.Status)
		}
		hostID = &app.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	input.normalize()
	if err := s.validate.ValidateListing(input); err != nil {
		return nil, err
	}
	for i := range images {
		if err := validateImage(&images[i]); err != nil {
			return nil, err
		}
	}

	listing := &models.Listing{
		HostID:  hostID,
		OwnerID: auth.Principal.String(),
	}
	applyListingInput(listing, input)

	geometry := ResolveGeometry(ctx, s.geocoder, s.log, input.Location, nil)
	listing.SetGeometry(&geometry)

	stored, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}
	listing.Images = datatypes.NewJSONType(stored)

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	s.log.Info("listing created", map[string]interface{}{"listingId": listing.ID, "owner": listing.OwnerID})
	return listing, nil
}

// Show returns a listing with its reviews
func (s *ListingService) Show(ctx context.Context, id uint) (*ListingDetail, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByListing(ctx, listingKey(id))
	if err != nil {
		s.log.Warn("reviews unavailable", map[string]interface{}{"listingId": id, "error": err.Error()})
		reviews = []reviewstore.Review{}
	}
	return &ListingDetail{Listing: listing.ToResponse(), Reviews: reviews}, nil
}

// Update edits a listing. Only its owner may do so.
func (s *ListingService) Update(ctx context.Context, auth domain.AuthContext, id uint, input *ListingInput, images []Upload) (*models.Listing, error) {
	listing, err := s.owned(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if err := s.validate.ValidateListing(input); err != nil {
		return nil, err
	}
	for i := range images {
		if err := validateImage(&images[i]); err != nil {
			return nil, err
		}
	}

	relocated := !strings.EqualFold(listing.Location, input.Location)
	applyListingInput(listing, input)
	if relocated {
		geometry := ResolveGeometry(ctx, s.geocoder, s.log, input.Location, nil)
		listing.SetGeometry(&geometry)
	}

	if len(images) > 0 {
		stored, err := s.uploadImages(ctx, images)
		if err != nil {
			return nil, err
		}
		listing.Images = datatypes.NewJSONType(append(listing.Images.Data(), stored...))
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return listing, nil
}

// Delete removes a listing and its reviews. Only its owner may do so.
func (s *ListingService) Delete(ctx context.Context, auth domain.AuthContext, id uint) error {
	if _, err := s.owned(ctx, auth, id); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}

	n, err := s.reviews.DeleteByListing(ctx, listingKey(id))
	if err != nil {
		// the hourly prune removes what is left behind
		s.log.Warn("reviews not deleted with listing", map[string]interface{}{"listingId": id, "error": err.Error()})
		return nil
	}
	s.log.Info("listing deleted", map[string]interface{}{"listingId": id, "reviews": n})
	return nil
}

func (s *ListingService) owned(ctx context.Context, auth domain.AuthContext, id uint) (*models.Listing, error) {
	if !auth.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != auth.Principal.String() {
		return nil, domain.ErrUnauthorized
	}
	return listing, nil
}

// Search returns one page of visible listings
func (s *ListingService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	page := pagination.New(params.Page, params.Limit, pagination.DefaultLimit)
	now := s.now()

	filter := repositories.ListingFilter{
		Query:      strings.TrimSpace(params.Query),
		MinPrice:   parsePrice(params.MinPrice),
		MaxPrice:   parsePrice(params.MaxPrice),
		Guests:     params.Guests,
		Sort:       domain.ParseSortMode(params.Sort),
		Offset:     page.Offset,
		Limit:      page.Limit,
		PromotedAt: now,
	}
	if domain.IsCategory(params.Category) {
		filter.Category = params.Category
	}

	items, total, err := s.listings.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	result := &SearchResult{
		Promoted: []*models.ListingResponse{},
		Regular:  []*models.ListingResponse{},
		Meta:     pagination.GetMeta(page, total),
	}
	for _, l := range items {
		resp := l.ToResponse()
		resp.Promoted = l.IsPromoted(now)
		if resp.Promoted {
			result.Promoted = append(result.Promoted, resp)
		} else {
			result.Regular = append(result.Regular, resp)
		}
	}
	return result, nil
}

func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Facets aggregates the visible catalogue
func (s *ListingService) Facets(ctx context.Context) (*repositories.ListingFacets, error) {
	facets, err := s.listings.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing facets: %w", err)
	}
	if facets.PriceStats.Count == 0 {
		facets.PriceStats = repositories.PriceStats{Min: fallbackMinPrice, Max: fallbackMaxPrice, Avg: fallbackAvgPrice}
	}
	if len(facets.PopularLocations) > PopularLocationLimit {
		facets.PopularLocations = facets.PopularLocations[:PopularLocationLimit]
	}
	if facets.CategoryCounts == nil {
		facets.CategoryCounts = []repositories.CategoryCount{}
	}
	if facets.PopularLocations == nil {
		facets.PopularLocations = []repositories.LocationCount{}
	}
	return facets, nil
}

// Suggestions returns place names matching query
func (s *ListingService) Suggestions(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < SuggestionMinLength {
		return []string{}, nil
	}

	found, err := s.listings.Suggestions(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	if len(found) > 0 {
		if len(found) > SuggestionLimit {
			found = found[:SuggestionLimit]
		}
		return found, nil
	}

	q := strings.ToLower(query)
	out := make([]string, 0, SuggestionLimit)
	for _, place := range domain.PopularPlaces {
		if strings.Contains(strings.ToLower(place), q) {
			out = append(out, place)
		}
	}
	if len(out) == 0 {
		out = append(out, domain.PopularPlaces...)
	}
	if len(out) > SuggestionLimit {
		out = out[:SuggestionLimit]
	}
	return out, nil
}

// CategoryStats counts visible listings per category
func (s *ListingService) CategoryStats(ctx context.Context) ([]repositories.CategoryCount, error) {
	return s.listings.CategoryStats(ctx)
}

// PopularDestinations returns the locations with the most listings
func (s *ListingService) PopularDestinations(ctx context.Context) ([]repositories.LocationCount, error) {
	return s.listings.PopularDestinations(ctx, PopularDestinationLimit)
}

// CreatePromotionOrder opens a gateway order to promote a listing
func (s *ListingService) CreatePromotionOrder(ctx context.Context, auth domain.AuthContext, id uint) (*OrderView, error) {
	if _, err := s.owned(ctx, auth, id); err != nil {
		return nil, err
	}
	receipt := fmt.Sprintf("receipt_promotion_%d", s.now().Unix())
	order, err := s.gateway.CreateOrder(ctx, PromotionFee, Currency, receipt)
	if err != nil {
		metrics.RecordUpstreamFailure("payment")
		return nil, err
	}
	if err := s.orders.Create(ctx, &models.PaymentOrder{
		OrderID:     order.ID,
		Purpose:     models.OrderPurposePromotion,
		PrincipalID: auth.Principal.String(),
		ListingID:   id,
		Amount:      order.Amount,
		Currency:    order.Currency,
	}); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}
	return &OrderView{OrderID: order.ID, Amount: order.Amount, Currency: order.Currency, Key: s.gateway.KeyID()}, nil
}

// VerifyPromotion checks the checkout signature and extends the promotion
// by one period from the later of now and the current expiry. Each
// promotion order extends the listing once.
func (s *ListingService) VerifyPromotion(ctx context.Context, auth domain.AuthContext, id uint, orderID, paymentID, signature string) (*models.Listing, error) {
	listing, err := s.owned(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		metrics.RecordSignatureFailure("promotion")
		return nil, domain.ErrInvalidSignature
	}

	order, err := claimOrder(ctx, s.orders, orderID, paymentID, models.OrderPurposePromotion, auth.Principal.String())
	if err != nil {
		return nil, err
	}
	if order.ListingID != id || order.Amount != PromotionFee {
		return nil, fmt.Errorf("%w: order %s was not opened to promote listing %d", domain.ErrOrderMismatch, orderID, id)
	}
	if order.Status == models.OrderPaid {
		return listing, nil
	}
	claimed, err := s.orders.MarkPaid(ctx, orderID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	if !claimed {
		return listing, nil
	}

	start := s.now()
	if listing.PromotionExpiresAt != nil && listing.PromotionExpiresAt.After(start) {
		start = *listing.PromotionExpiresAt
	}
	expires := start.Add(PromotionPeriod)

	if err := s.listings.SetPromotion(ctx, id, expires); err != nil {
		return nil, fmt.Errorf("set promotion: %w", err)
	}
	listing.PromotionExpiresAt = &expires

	s.notifier.NotifyPromotionActive(ctx, listing)
	return listing, nil
}

// ClearExpiredPromotions resets promotions that ran out
func (s *ListingService) ClearExpiredPromotions(ctx context.Context) (int64, error) {
	return s.listings.ClearExpiredPromotions(ctx, s.now())
}

func (s *ListingService) uploadImages(ctx context.Context, images []Upload) ([]models.ListingImage, error) {
	out := make([]models.ListingImage, 0, len(images))
	for i := range images {
		name := fmt.Sprintf("listing-%d-%d%s", s.now().UnixNano(), i, strings.ToLower(filepath.Ext(images[i].Filename)))
		img, err := s.uploader.Upload(ctx, name, images[i].Content)
		if err != nil {
			metrics.RecordUpstreamFailure("image_host")
			return nil, fmt.Errorf("upload image: %w", err)
		}
		out = append(out, models.ListingImage{URL: img.URL, Filename: name})
	}
	return out, nil
}

func validateImage(file *Upload) error {
	if err := ValidateUpload(file); err != nil {
		return err
	}
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return domain.NewValidationError("listing photos must be images", "image")
	}
	return nil
}

func applyListingInput(listing *models.Listing, input *ListingInput) {
	listing.Title = input.Title
	listing.Description = input.Description
	listing.Location = input.Location
	listing.Country = input.Country
	listing.Price = input.Price
	listing.Guests = input.Guests
	listing.PropertyType = orDefault(input.PropertyType, domain.DefaultPropertyType)
	listing.Category = orDefault(input.Category, domain.DefaultCategory)
	listing.Cancellation = orDefault(input.Cancellation, domain.DefaultCancellation)
	listing.Amenities = datatypes.NewJSONType(append([]string{}, input.Amenities...))
}

func listingKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
