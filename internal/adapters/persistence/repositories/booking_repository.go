package repositories

import (
	"context"

	"homyhive/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookingRepository implements BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a booking. A reused payment id yields ErrDuplicateEntry.
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Create(booking).Error)
}

// GetByPaymentID gets the booking paid by paymentID
func (r *bookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// ListByUser lists the bookings of a guest, newest first
func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// Count returns the number of bookings
func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error
	return count, err
}
