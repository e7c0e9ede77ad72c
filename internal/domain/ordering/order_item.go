package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// RefundState is the derived refund state of one order line
type RefundState string

const (
	// RefundStateUnrefunded indicates no refund has touched the line
	RefundStateUnrefunded RefundState = "UNREFUNDED"
	// RefundStatePartial indicates part of the line total was refunded
	RefundStatePartial RefundState = "PARTIALLY_REFUNDED"
	// RefundStateFull indicates the whole line total was refunded
	RefundStateFull RefundState = "FULLY_REFUNDED"
)

// OrderItemDetail is the immutable per-line financial snapshot taken at
// order creation. The numeric decomposition fields are never edited in
// place; corrections are captured in OrderRefund records, and the only
// mutable state here is the cumulative refunded amount with its derived
// flags. This preserves the original audit trail.
type OrderItemDetail struct {
	shared.TenantAggregateRoot

	OrderID   uuid.UUID `json:"order_id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`

	// Decomposition snapshot
	UnitPriceIncVAT decimal.Decimal `json:"unit_price_inc_vat"`
	UnitPriceExVAT  decimal.Decimal `json:"unit_price_ex_vat"`
	SubtotalExVAT   decimal.Decimal `json:"subtotal_ex_vat"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
	CommissionExVAT decimal.Decimal `json:"commission_ex_vat"`
	CommissionVAT   decimal.Decimal `json:"commission_vat"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	MerchantPayout  decimal.Decimal `json:"merchant_payout"`

	// Rate snapshot applied to this line. Refund math re-derives splits
	// from these, never from current configuration.
	VATPercent        decimal.Decimal `json:"vat_percent"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`

	// Refund tracking. RefundedAmount is cumulative (inc-VAT) so multiple
	// partial refunds compose safely; IsRefunded means fully refunded.
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	IsRefunded     bool            `json:"is_refunded"`
	RefundedAt     *time.Time      `json:"refunded_at"`
}

// NewOrderItemDetail snapshots one decomposed cart line for an order
func NewOrderItemDetail(tenantID, orderID uuid.UUID, lb LineBreakdown, vatPct, commissionPct decimal.Decimal) (*OrderItemDetail, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	return &OrderItemDetail{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		ProductID:           lb.ProductID,
		Name:                lb.Name,
		Quantity:            lb.Quantity,
		UnitPriceIncVAT:     lb.UnitPriceIncVAT,
		UnitPriceExVAT:      lb.UnitPriceExVAT,
		SubtotalExVAT:       lb.SubtotalExVAT,
		VATAmount:           lb.VATAmount,
		LineTotal:           lb.LineTotal,
		CommissionExVAT:     lb.CommissionExVAT,
		CommissionVAT:       lb.CommissionVAT,
		CommissionTotal:     lb.CommissionTotal,
		MerchantPayout:      lb.MerchantPayout,
		VATPercent:          vatPct,
		CommissionPercent:   commissionPct,
		RefundedAmount:      decimal.Zero,
	}, nil
}

// RefundState derives the line's refund state from the cumulative amount
func (d *OrderItemDetail) RefundState() RefundState {
	switch {
	case d.IsRefunded:
		return RefundStateFull
	case d.RefundedAmount.IsPositive():
		return RefundStatePartial
	default:
		return RefundStateUnrefunded
	}
}

// RemainingRefundable returns how much of the line total (inc-VAT) can
// still be refunded
func (d *OrderItemDetail) RemainingRefundable() decimal.Decimal {
	return d.LineTotal.Sub(d.RefundedAmount)
}

// RecordRefund accumulates a refunded inc-VAT amount against the line.
// A fully refunded line rejects any further refund; an amount that would
// push the cumulative total past the original line total is rejected.
func (d *OrderItemDetail) RecordRefund(amount decimal.Decimal) error {
	if d.IsRefunded {
		return shared.ErrAlreadyRefunded
	}
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}

	cumulative := d.RefundedAmount.Add(amount)
	if cumulative.GreaterThan(d.LineTotal) {
		return shared.ErrOverRefund
	}

	now := time.Now()
	d.RefundedAmount = cumulative
	d.UpdatedAt = now
	d.IncrementVersion()

	// is_refunded is derived: the line flips only when the whole total
	// has been given back.
	if cumulative.Equal(d.LineTotal) {
		d.IsRefunded = true
		d.RefundedAt = &now
	}

	return nil
}
