package repositories

import (
	"context"

	"homyhive/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// newsletterRepository implements NewsletterRepository interface
type newsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

// Create stores a subscription. A known address yields ErrDuplicateEntry.
func (r *newsletterRepository) Create(ctx context.Context, sub *models.NewsletterSubscription) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *newsletterRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NewsletterSubscription{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
