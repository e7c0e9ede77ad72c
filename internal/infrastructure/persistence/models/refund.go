package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/refund"
)

// OrderRefundModel is the persistence model for processed refund events.
type OrderRefundModel struct {
	TenantAggregateModel
	OrderID           uuid.UUID   `gorm:"type:uuid;not null;index"`
	OrderItemDetailID uuid.UUID   `gorm:"type:uuid;not null;index"`
	RefundType        refund.Type `gorm:"type:varchar(20);not null"`
	Reason            string      `gorm:"type:varchar(500)"`

	AmountIncVAT    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountExVAT     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionExVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionVAT   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MerchantPayout  decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	Status         refund.Status `gorm:"type:varchar(20);not null;default:'PROCESSED'"`
	JournalEntryID *uuid.UUID    `gorm:"type:uuid"`
	AdjustmentID   *uuid.UUID    `gorm:"type:uuid"`
	ProcessedAt    *time.Time    `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderRefundModel) TableName() string {
	return "order_refunds"
}

// ToDomain converts the persistence model to a domain OrderRefund entity.
func (m *OrderRefundModel) ToDomain() *refund.OrderRefund {
	r := &refund.OrderRefund{
		OrderID:           m.OrderID,
		OrderItemDetailID: m.OrderItemDetailID,
		RefundType:        m.RefundType,
		Reason:            m.Reason,
		AmountIncVAT:      m.AmountIncVAT,
		AmountExVAT:       m.AmountExVAT,
		VATAmount:         m.VATAmount,
		CommissionExVAT:   m.CommissionExVAT,
		CommissionVAT:     m.CommissionVAT,
		CommissionTotal:   m.CommissionTotal,
		MerchantPayout:    m.MerchantPayout,
		Status:            m.Status,
		JournalEntryID:    m.JournalEntryID,
		AdjustmentID:      m.AdjustmentID,
		ProcessedAt:       m.ProcessedAt,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain OrderRefund entity.
func (m *OrderRefundModel) FromDomain(r *refund.OrderRefund) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.OrderID = r.OrderID
	m.OrderItemDetailID = r.OrderItemDetailID
	m.RefundType = r.RefundType
	m.Reason = r.Reason
	m.AmountIncVAT = r.AmountIncVAT
	m.AmountExVAT = r.AmountExVAT
	m.VATAmount = r.VATAmount
	m.CommissionExVAT = r.CommissionExVAT
	m.CommissionVAT = r.CommissionVAT
	m.CommissionTotal = r.CommissionTotal
	m.MerchantPayout = r.MerchantPayout
	m.Status = r.Status
	m.JournalEntryID = r.JournalEntryID
	m.AdjustmentID = r.AdjustmentID
	m.ProcessedAt = r.ProcessedAt
}

// OrderRefundModelFromDomain creates a new persistence model from a domain OrderRefund.
func OrderRefundModelFromDomain(r *refund.OrderRefund) *OrderRefundModel {
	m := &OrderRefundModel{}
	m.FromDomain(r)
	return m
}
