package refund

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// Type is the scope of a refund against one order line
type Type string

const (
	// TypeFull reverses the line's original figures exactly
	TypeFull Type = "FULL"
	// TypePartial reverses a caller-supplied inc-VAT portion
	TypePartial Type = "PARTIAL"
)

// IsValid checks if the refund type is valid
func (t Type) IsValid() bool {
	return t == TypeFull || t == TypePartial
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Status represents the status of an order refund
type Status string

const (
	// StatusProcessed indicates the reversal was applied and journaled
	StatusProcessed Status = "PROCESSED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// OrderRefund is one refund event against one order line. It captures the
// original (pre-refund) figures being reversed and links the offsetting
// journal entry and any settlement adjustment it produced. Immutable once
// processed.
type OrderRefund struct {
	shared.TenantAggregateRoot

	OrderID           uuid.UUID `json:"order_id"`
	OrderItemDetailID uuid.UUID `json:"order_item_detail_id"`
	RefundType        Type      `json:"refund_type"`
	Reason            string    `json:"reason"`

	// The reversed figures, all derived from the snapshotted line rates
	AmountIncVAT    decimal.Decimal `json:"amount_inc_vat"`
	AmountExVAT     decimal.Decimal `json:"amount_ex_vat"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	CommissionExVAT decimal.Decimal `json:"commission_ex_vat"`
	CommissionVAT   decimal.Decimal `json:"commission_vat"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	MerchantPayout  decimal.Decimal `json:"merchant_payout"`

	Status         Status     `json:"status"`
	JournalEntryID *uuid.UUID `json:"journal_entry_id"`
	AdjustmentID   *uuid.UUID `json:"adjustment_id"`
	ProcessedAt    *time.Time `json:"processed_at"`
}

// NewOrderRefund creates a processed refund record from a computed reversal
func NewOrderRefund(
	tenantID, orderID, orderItemDetailID uuid.UUID,
	refundType Type,
	reason string,
	rev Reversal,
) (*OrderRefund, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if orderItemDetailID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINE", "Order item detail ID cannot be empty")
	}
	if !refundType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFUND_TYPE", "Invalid refund type")
	}
	if !rev.AmountIncVAT.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	now := time.Now()
	return &OrderRefund{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		OrderItemDetailID:   orderItemDetailID,
		RefundType:          refundType,
		Reason:              reason,
		AmountIncVAT:        rev.AmountIncVAT,
		AmountExVAT:         rev.AmountExVAT,
		VATAmount:           rev.VATAmount,
		CommissionExVAT:     rev.CommissionExVAT,
		CommissionVAT:       rev.CommissionVAT,
		CommissionTotal:     rev.CommissionTotal,
		MerchantPayout:      rev.MerchantPayout,
		Status:              StatusProcessed,
		ProcessedAt:         &now,
	}, nil
}

// LinkJournalEntry links the reversing journal entry
func (r *OrderRefund) LinkJournalEntry(entryID uuid.UUID) error {
	if entryID == uuid.Nil {
		return shared.NewDomainError("INVALID_JOURNAL_ENTRY", "Journal entry ID cannot be empty")
	}
	r.JournalEntryID = &entryID
	r.UpdatedAt = time.Now()
	return nil
}

// LinkAdjustment links the settlement adjustment produced for an
// already-settled line
func (r *OrderRefund) LinkAdjustment(adjustmentID uuid.UUID) error {
	if adjustmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment ID cannot be empty")
	}
	r.AdjustmentID = &adjustmentID
	r.UpdatedAt = time.Now()
	return nil
}
