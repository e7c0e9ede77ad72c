package refund

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists order refunds. Refunds are immutable once processed,
// so there is no update path beyond the initial save with its links.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderRefund, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OrderRefund, error)
	FindByLine(ctx context.Context, tenantID, orderItemDetailID uuid.UUID) ([]OrderRefund, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]OrderRefund, error)
	// SumPayoutReversedByStore totals reversed merchant payouts for a
	// store's orders. Reporting only: the outstanding due already reflects
	// reversals because they reduce the order payouts it is summed from.
	SumPayoutReversedByStore(ctx context.Context, tenantID, storeID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, refund *OrderRefund) error
}
