package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
)

// amountInPaise converts a rupee total to the gateway's integer unit
func amountInPaise(total float64) int64 {
	return int64(math.Round(total * 100))
}

// claimOrder loads the stored order behind a verified payment and checks it
// was opened for purpose by the same principal. An order already settled by
// a different payment is refused.
func claimOrder(ctx context.Context, orders repositories.PaymentOrderRepository, orderID, paymentID, purpose, principal string) (*models.PaymentOrder, error) {
	order, err := orders.GetByOrderID(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown order %s", domain.ErrOrderMismatch, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	switch {
	case order.Purpose != purpose:
		return nil, fmt.Errorf("%w: order %s was opened for a %s", domain.ErrOrderMismatch, orderID, order.Purpose)
	case order.PrincipalID != principal:
		return nil, fmt.Errorf("%w: order %s belongs to another user", domain.ErrOrderMismatch, orderID)
	case order.Status == models.OrderPaid && order.PaymentID != paymentID:
		return nil, fmt.Errorf("%w: order %s is already paid", domain.ErrOrderMismatch, orderID)
	}
	return order, nil
}
