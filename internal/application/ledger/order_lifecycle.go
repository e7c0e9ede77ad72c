package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransitionOrder moves an order through its lifecycle. Delivery is the
// transition the ledger cares about: from that point the order counts
// toward its recipients' outstanding dues.
func (s *CheckoutService) TransitionOrder(ctx context.Context, tenantID, orderID uuid.UUID, next ordering.OrderStatus) (*ordering.Order, error) {
	var updated *ordering.Order
	txErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if err := order.TransitionTo(next); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		updated = order
		return nil
	})
	if txErr != nil {
		return nil, asPersistenceFailure(s.logger, txErr, "order transition",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_id", orderID.String()))
	}

	s.logger.Info("order status changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", updated.OrderNumber),
		zap.String("status", updated.Status.String()))

	return updated, nil
}

// AssignCourier attaches the courier who will deliver the order. Must
// happen before delivery or the delivery fee has no recipient to accrue to.
func (s *CheckoutService) AssignCourier(ctx context.Context, tenantID, orderID, courierID uuid.UUID) (*ordering.Order, error) {
	var updated *ordering.Order
	txErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if err := order.AssignCourier(courierID); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		updated = order
		return nil
	})
	if txErr != nil {
		return nil, asPersistenceFailure(s.logger, txErr, "courier assignment",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_id", orderID.String()))
	}
	return updated, nil
}
