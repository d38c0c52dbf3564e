package repositories

import (
	"context"

	"homyhive/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentOrderRepository implements PaymentOrderRepository interface
type paymentOrderRepository struct {
	db *gorm.DB
}

// NewPaymentOrderRepository creates a new payment order repository
func NewPaymentOrderRepository(db *gorm.DB) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

// Create stores an order opened with the gateway
func (r *paymentOrderRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	if order.Status == "" {
		order.Status = models.OrderCreated
	}
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

// GetByOrderID gets an order by its gateway id
func (r *paymentOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// MarkPaid flips a created order to paid. Only one caller wins for a
// given order.
func (r *paymentOrderRepository) MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderCreated).
		Updates(map[string]interface{}{
			"status":     models.OrderPaid,
			"payment_id": paymentID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
