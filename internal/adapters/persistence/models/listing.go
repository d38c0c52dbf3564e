package models

import (
	"time"

	"homyhive/internal/core/domain"

	"gorm.io/datatypes"
)

// ============================================================
// Listings
// ============================================================

// ListingImage is one hosted picture
type ListingImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Listing represents a rentable property
type Listing struct {
	ID                  uint                               `gorm:"primaryKey" json:"id"`
	Title               string                             `gorm:"size:200;not null" json:"title"`
	Description         string                             `gorm:"type:text" json:"description"`
	PropertyType        string                             `gorm:"size:50" json:"propertyType"`
	Guests              int                                `gorm:"default:1" json:"guests"`
	Price               float64                            `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Cancellation        string                             `gorm:"size:20;default:'flexible'" json:"cancellation"`
	Category            string                             `gorm:"size:40;index" json:"category"`
	Country             string                             `gorm:"size:100" json:"country"`
	Location            string                             `gorm:"size:200" json:"location"`
	Longitude           float64                            `json:"-"`
	Latitude            float64                            `json:"-"`
	Images              datatypes.JSONType[[]ListingImage] `json:"images"`
	Amenities           datatypes.JSONType[[]string]       `json:"amenities"`
	HostID              *uint                              `gorm:"index" json:"hostId"`
	SourceApplicationID *uint                              `gorm:"uniqueIndex" json:"sourceApplicationId,omitempty"`
	OwnerID             string                             `gorm:"size:64;index" json:"ownerId"`
	PromotionExpiresAt  *time.Time                         `gorm:"index" json:"promotionExpiresAt,omitempty"`
	Rating              float64                            `gorm:"default:0" json:"rating"`
	ReviewCount         int                                `gorm:"default:0" json:"reviewCount"`
	CreatedAt           time.Time                          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time                          `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}

// Geometry returns the GeoJSON point of the listing
func (l *Listing) Geometry() domain.Geometry {
	return domain.NewPoint(l.Longitude, l.Latitude)
}

// SetGeometry stores g, substituting the fallback point when g is empty
func (l *Listing) SetGeometry(g *domain.Geometry) {
	if g == nil || (g.Coordinates[0] == 0 && g.Coordinates[1] == 0) {
		fb := domain.FallbackPoint()
		g = &fb
	}
	l.Longitude = g.Coordinates[0]
	l.Latitude = g.Coordinates[1]
}

// IsPromoted reports whether the promotion is still running at now
func (l *Listing) IsPromoted(now time.Time) bool {
	return l.PromotionExpiresAt != nil && l.PromotionExpiresAt.After(now)
}

// ListingResponse DTO
type ListingResponse struct {
	*Listing
	Geometry domain.Geometry `json:"geometry"`
	Promoted bool            `json:"promoted"`
}

func (l *Listing) ToResponse() *ListingResponse {
	return &ListingResponse{
		Listing:  l,
		Geometry: l.Geometry(),
		Promoted: l.IsPromoted(time.Now()),
	}
}

// ============================================================
// Bookings
// ============================================================

// Payment status values
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Booking status values
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a paid stay
type Booking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"size:64;index;not null" json:"userId"`
	ListingID     uint      `gorm:"index;not null" json:"listingId"`
	HostID        string    `gorm:"size:64;index" json:"hostId"`
	CheckIn       time.Time `gorm:"not null" json:"checkIn"`
	CheckOut      time.Time `gorm:"not null" json:"checkOut"`
	Nights        int       `gorm:"not null" json:"nights"`
	Guests        int       `gorm:"not null" json:"guests"`
	TotalAmount   float64   `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PlatformFee   float64   `gorm:"type:decimal(12,2);not null" json:"platformFee"`
	HostAmount    float64   `gorm:"type:decimal(12,2);not null" json:"hostAmount"`
	PaymentID     string    `gorm:"uniqueIndex;size:64;not null" json:"paymentId"`
	OrderID       string    `gorm:"size:64;index" json:"orderId"`
	PaymentStatus string    `gorm:"size:20;default:'pending'" json:"paymentStatus"`
	BookingStatus string    `gorm:"size:20;default:'pending'" json:"bookingStatus"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Payment order purposes
const (
	OrderPurposeBooking   = "booking"
	OrderPurposePromotion = "promotion"
)

// Payment order states
const (
	OrderCreated = "created"
	OrderPaid    = "paid"
)

// PaymentOrder records what a gateway order was opened for, so a verified
// payment can only settle the purchase it was quoted for.
type PaymentOrder struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     string     `gorm:"uniqueIndex;size:64;not null" json:"orderId"`
	Purpose     string     `gorm:"size:20;not null" json:"purpose"`
	PrincipalID string     `gorm:"size:64;index;not null" json:"principalId"`
	ListingID   uint       `gorm:"index" json:"listingId"`
	CheckIn     *time.Time `json:"checkIn,omitempty"`
	CheckOut    *time.Time `json:"checkOut,omitempty"`
	Guests      int        `json:"guests,omitempty"`
	Amount      int64      `gorm:"not null" json:"amount"`
	Currency    string     `gorm:"size:3" json:"currency"`
	Status      string     `gorm:"size:20;default:'created'" json:"status"`
	PaymentID   string     `gorm:"size:64" json:"paymentId,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

// ============================================================
// Notifications
// ============================================================

// Notification types
const (
	NotificationBooking   = "booking"
	NotificationReview    = "review"
	NotificationMessage   = "message"
	NotificationSystem    = "system"
	NotificationPromotion = "promotion"
)

// Notification is an in-app message for one principal
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"size:64;index;not null" json:"userId"`
	Type      string            `gorm:"size:20;not null" json:"type"`
	Title     string            `gorm:"size:100;not null" json:"title"`
	Message   string            `gorm:"size:500;not null" json:"message"`
	Priority  string            `gorm:"size:10;default:'medium'" json:"priority"`
	IsRead    bool              `gorm:"default:false;index" json:"isRead"`
	ActionURL string            `gorm:"size:255" json:"actionUrl,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
