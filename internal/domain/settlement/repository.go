package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// Repository persists settlements and their items
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Settlement, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Settlement, error)
	FindAllForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType RecipientType, recipientID uuid.UUID, filter shared.Filter) ([]Settlement, error)
	// SumCompletedForRecipient totals completed settlement amounts for a
	// recipient; the subtrahend of the outstanding-due computation.
	SumCompletedForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType RecipientType, recipientID uuid.UUID) (decimal.Decimal, error)
	// SettledOrderIDs returns the IDs of orders already covered by a
	// completed settlement for the recipient.
	SettledOrderIDs(ctx context.Context, tenantID uuid.UUID, recipientType RecipientType, recipientID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, settlement *Settlement) error
	GenerateSettlementNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// AdjustmentRepository persists refund adjustments pending against future
// settlements
type AdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	FindPendingForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType RecipientType, recipientID uuid.UUID) ([]Adjustment, error)
	// SumPendingForRecipient totals adjustments not yet netted. Reported
	// alongside the outstanding due, never subtracted from it: refund
	// reversals already reduce the order payouts the due is summed from.
	SumPendingForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType RecipientType, recipientID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, adjustment *Adjustment) error
}
