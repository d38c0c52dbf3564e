package repositories

import (
	"context"
	"strings"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listingRepository implements ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// visible restricts a query to listings whose host application is missing
// or approved. A host_id left behind by a deleted application counts as
// missing.
func (r *listingRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Joins("LEFT JOIN host_applications ON host_applications.id = listings.host_id").
		Where("host_applications.id IS NULL OR host_applications.status = ?", domain.StatusApproved)
}

// Create creates a new listing
func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return translate(r.db.WithContext(ctx).Create(listing).Error)
}

// UpsertFromApplication inserts the listing unless one already exists for
// its source application, then returns the stored row.
func (r *listingRepository) UpsertFromApplication(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if listing.SourceApplicationID == nil {
		return nil, domain.NewValidationError("listing has no source application", "sourceApplicationId")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(listing).Error
	if err != nil {
		return nil, translate(err)
	}

	var stored models.Listing
	err = r.db.WithContext(ctx).
		Where("source_application_id = ?", *listing.SourceApplicationID).
		First(&stored).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// GetByID gets a listing by ID
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

// Exists checks whether a listing id is present
func (r *listingRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update saves every column of the listing
func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	return translate(r.db.WithContext(ctx).Save(listing).Error)
}

// Delete removes a listing
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Listing{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search returns one page of visible listings matching filter
func (r *listingRepository) Search(ctx context.Context, filter ListingFilter) ([]*models.Listing, int64, error) {
	var listings []*models.Listing
	var total int64

	query := r.visible(ctx)

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			"LOWER(listings.title) LIKE ? OR LOWER(listings.description) LIKE ? OR LOWER(listings.location) LIKE ? OR LOWER(listings.country) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if domain.IsCategory(filter.Category) {
		query = query.Where("listings.category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("listings.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("listings.price <= ?", *filter.MaxPrice)
	}
	if filter.Guests > 0 {
		query = query.Where("listings.guests >= ?", filter.Guests)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("listings.*").
		Order(searchOrder(filter)).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func orderFor(sort domain.SortMode) string {
	switch sort {
	case domain.SortPriceLow:
		return "listings.price ASC, listings.id DESC"
	case domain.SortPriceHigh:
		return "listings.price DESC, listings.id DESC"
	case domain.SortRating:
		return "listings.rating DESC, listings.review_count DESC, listings.id DESC"
	default:
		return "listings.created_at DESC, listings.id DESC"
	}
}

// searchOrder ranks running promotions first when filter.PromotedAt is set,
// then applies the requested sort.
func searchOrder(filter ListingFilter) interface{} {
	if filter.PromotedAt.IsZero() {
		return orderFor(filter.Sort)
	}
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                "(listings.promotion_expires_at IS NOT NULL AND listings.promotion_expires_at > ?) DESC, " + orderFor(filter.Sort),
		Vars:               []interface{}{filter.PromotedAt},
		WithoutParentheses: true,
	}}
}

// escapeLike neutralizes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Facets aggregates categories, prices and locations over visible listings
func (r *listingRepository) Facets(ctx context.Context) (*ListingFacets, error) {
	facets := &ListingFacets{}

	cats, err := r.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	facets.CategoryCounts = cats

	var price PriceStats
	err = r.visible(ctx).
		Select("COALESCE(MIN(listings.price), 0) AS min, COALESCE(MAX(listings.price), 0) AS max, COALESCE(AVG(listings.price), 0) AS avg, COUNT(*) AS count").
		Scan(&price).Error
	if err != nil {
		return nil, err
	}
	facets.PriceStats = price

	locations, err := r.locationCounts(ctx, 10)
	if err != nil {
		return nil, err
	}
	facets.PopularLocations = locations

	return facets, nil
}

// Suggestions returns distinct locations then titles containing query
func (r *listingRepository) Suggestions(ctx context.Context, query string, limit int) ([]string, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"

	var locations []string
	err := r.visible(ctx).
		Distinct("listings.location").
		Where("LOWER(listings.location) LIKE ?", pattern).
		Limit(limit).
		Pluck("listings.location", &locations).Error
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	add := func(values []string) {
		for _, v := range values {
			key := strings.ToLower(v)
			if _, ok := seen[key]; ok || v == "" || len(out) >= limit {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v)
		}
	}
	add(locations)

	if len(out) < limit {
		var titles []string
		err = r.visible(ctx).
			Distinct("listings.title").
			Where("LOWER(listings.title) LIKE ?", pattern).
			Limit(limit).
			Pluck("listings.title", &titles).Error
		if err != nil {
			return nil, err
		}
		add(titles)
	}

	return out, nil
}

// CategoryStats returns listing counts and average price per category
func (r *listingRepository) CategoryStats(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.visible(ctx).
		Select("listings.category AS category, COUNT(*) AS count, COALESCE(AVG(listings.price), 0) AS avg_price").
		Group("listings.category").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// PopularDestinations returns the locations with the most listings
func (r *listingRepository) PopularDestinations(ctx context.Context, limit int) ([]LocationCount, error) {
	return r.locationCounts(ctx, limit)
}

func (r *listingRepository) locationCounts(ctx context.Context, limit int) ([]LocationCount, error) {
	var rows []LocationCount
	err := r.visible(ctx).
		Select("listings.location AS location, MAX(listings.country) AS country, COUNT(*) AS count, COALESCE(AVG(listings.price), 0) AS avg_price").
		Where("listings.location <> ''").
		Group("listings.location").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ListIDs returns every listing id
func (r *listingRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Pluck("id", &ids).Error
	return ids, err
}

// UpdateRating stores the denormalized review aggregate
func (r *listingRepository) UpdateRating(ctx context.Context, id uint, rating float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "review_count": count}).Error
}

// SetPromotion sets the promotion expiry of a listing
func (r *listingRepository) SetPromotion(ctx context.Context, id uint, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("promotion_expires_at", expiresAt).Error
}

// ClearExpiredPromotions resets promotions that ended before now
func (r *listingRepository) ClearExpiredPromotions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("promotion_expires_at IS NOT NULL AND promotion_expires_at <= ?", now).
		Update("promotion_expires_at", nil)
	return result.RowsAffected, result.Error
}

// Count returns the number of listings
func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Count(&count).Error
	return count, err
}
