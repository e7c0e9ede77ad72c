package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// OrderRepository provides access to persisted orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// FindDeliveredUnsettledByStore returns delivered orders for a store
	// that are not yet covered by a completed settlement, oldest first.
	FindDeliveredUnsettledByStore(ctx context.Context, tenantID, storeID uuid.UUID) ([]Order, error)
	// FindDeliveredUnsettledByCourier is the courier-side counterpart.
	FindDeliveredUnsettledByCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]Order, error)
	// SumDeliveredMerchantPayout aggregates merchant payouts over delivered
	// orders for a store. Re-computed on every call; no caching.
	SumDeliveredMerchantPayout(ctx context.Context, tenantID, storeID uuid.UUID) (decimal.Decimal, error)
	// SumDeliveredDeliveryFees aggregates delivery fees over delivered
	// orders assigned to a courier.
	SumDeliveredDeliveryFees(ctx context.Context, tenantID, courierID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock saves using the aggregate's version for optimistic locking
	SaveWithLock(ctx context.Context, order *Order) error
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// OrderItemDetailRepository provides access to the per-line snapshots
type OrderItemDetailRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderItemDetail, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OrderItemDetail, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error)
	Save(ctx context.Context, detail *OrderItemDetail) error
	// SaveWithLock guards concurrent refund updates against the same line
	SaveWithLock(ctx context.Context, detail *OrderItemDetail) error
}
