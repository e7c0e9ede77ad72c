package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// AdjustmentStatus tracks whether a refund adjustment has been netted
// against a settlement yet
type AdjustmentStatus string

const (
	// AdjustmentStatusPending means the adjustment still reduces the
	// recipient's next settlement
	AdjustmentStatusPending AdjustmentStatus = "PENDING"
	// AdjustmentStatusNetted means a later settlement consumed it
	AdjustmentStatusNetted AdjustmentStatus = "NETTED"
)

// IsValid checks if the adjustment status is valid
func (s AdjustmentStatus) IsValid() bool {
	return s == AdjustmentStatusPending || s == AdjustmentStatusNetted
}

// Adjustment records money that must be clawed back from a recipient
// because a refund reversed figures that were already part of a completed
// settlement. Completed settlements are immutable, so the correction is
// netted against the recipient's next settlement instead.
type Adjustment struct {
	shared.TenantAggregateRoot

	RecipientType RecipientType `json:"recipient_type"`
	RecipientID   uuid.UUID     `json:"recipient_id"`

	OrderRefundID     uuid.UUID       `json:"order_refund_id"`
	OrderItemDetailID uuid.UUID       `json:"order_item_detail_id"`
	Amount            decimal.Decimal `json:"amount"`

	Status             AdjustmentStatus `json:"status"`
	NettedSettlementID *uuid.UUID       `json:"netted_settlement_id"`
	NettedAt           *time.Time       `json:"netted_at"`
}

// NewAdjustment creates a pending settlement adjustment for a refund
func NewAdjustment(
	tenantID uuid.UUID,
	recipientType RecipientType,
	recipientID, orderRefundID, orderItemDetailID uuid.UUID,
	amount decimal.Decimal,
) (*Adjustment, error) {
	if !recipientType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECIPIENT_TYPE", "Invalid recipient type")
	}
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	if orderRefundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFUND", "Order refund ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	return &Adjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RecipientType:       recipientType,
		RecipientID:         recipientID,
		OrderRefundID:       orderRefundID,
		OrderItemDetailID:   orderItemDetailID,
		Amount:              shared.Round2(amount),
		Status:              AdjustmentStatusPending,
	}, nil
}

// MarkNetted records that a settlement consumed this adjustment
func (a *Adjustment) MarkNetted(settlementID uuid.UUID) error {
	if settlementID == uuid.Nil {
		return shared.NewDomainError("INVALID_SETTLEMENT", "Settlement ID cannot be empty")
	}
	if a.Status == AdjustmentStatusNetted {
		return shared.NewDomainError("INVALID_STATE", "Adjustment was already netted")
	}

	now := time.Now()
	a.Status = AdjustmentStatusNetted
	a.NettedSettlementID = &settlementID
	a.NettedAt = &now
	a.UpdatedAt = now
	return nil
}
