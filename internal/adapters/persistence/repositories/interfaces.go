package repositories

import (
	"context"
	"time"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ApplicationFilter narrows host application listings
type ApplicationFilter struct {
	Statuses []domain.ApplicationStatus
	Offset   int
	Limit    int
}

// HostApplicationRepository defines host application repository interface
type HostApplicationRepository interface {
	Create(ctx context.Context, app *models.HostApplication) error
	GetByID(ctx context.Context, id uint) (*models.HostApplication, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*models.HostApplication, error)
	GetByPrincipal(ctx context.Context, principal string) (*models.HostApplication, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.HostApplication, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Update(ctx context.Context, app *models.HostApplication) error
	List(ctx context.Context, filter ApplicationFilter) ([]*models.HostApplication, int64, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
	Recent(ctx context.Context, limit int) ([]*models.HostApplication, error)
	AddEvent(ctx context.Context, event *models.HostApplicationEvent) error
	ListEvents(ctx context.Context, applicationID uint) ([]*models.HostApplicationEvent, error)
}

// ListingFilter holds the search criteria for listings
type ListingFilter struct {
	Query      string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	Guests     int
	Sort       domain.SortMode
	Offset     int
	Limit      int
	// PromotedAt, when set, ranks listings promoted at that instant first
	PromotedAt time.Time
}

// CategoryCount is one bucket of the category facet
type CategoryCount struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// PriceStats summarizes listing prices
type PriceStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int64   `json:"-"`
}

// LocationCount is one bucket of the location facet
type LocationCount struct {
	Location string  `json:"location"`
	Country  string  `json:"country,omitempty"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// ListingFacets aggregates visible listings
type ListingFacets struct {
	CategoryCounts   []CategoryCount `json:"categoryCounts"`
	PriceStats       PriceStats      `json:"priceStats"`
	PopularLocations []LocationCount `json:"popularLocations"`
}

// ListingRepository defines listing repository interface
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	UpsertFromApplication(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, filter ListingFilter) ([]*models.Listing, int64, error)
	Facets(ctx context.Context) (*ListingFacets, error)
	Suggestions(ctx context.Context, query string, limit int) ([]string, error)
	CategoryStats(ctx context.Context) ([]CategoryCount, error)
	PopularDestinations(ctx context.Context, limit int) ([]LocationCount, error)
	ListIDs(ctx context.Context) ([]uint, error)
	UpdateRating(ctx context.Context, id uint, rating float64, count int) error
	SetPromotion(ctx context.Context, id uint, expiresAt time.Time) error
	ClearExpiredPromotions(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// BookingRepository defines booking repository interface
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	Count(ctx context.Context) (int64, error)
}

// PaymentOrderRepository defines payment order repository interface
type PaymentOrderRepository interface {
	Create(ctx context.Context, order *models.PaymentOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	// MarkPaid settles an unpaid order and reports whether this call did it
	MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error)
}

// NotificationRepository defines notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, ids []uint) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// NewsletterRepository defines newsletter repository interface
type NewsletterRepository interface {
	Create(ctx context.Context, sub *models.NewsletterSubscription) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
