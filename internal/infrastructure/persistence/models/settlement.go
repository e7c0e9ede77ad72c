package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/settlement"
)

// SettlementModel is the persistence model for the Settlement aggregate root.
type SettlementModel struct {
	TenantAggregateModel
	SettlementNumber string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_settlement_tenant_number,priority:2"`
	RecipientType    settlement.RecipientType `gorm:"type:varchar(20);not null;index:idx_settlement_recipient,priority:1"`
	RecipientID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_settlement_recipient,priority:2"`

	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod    string          `gorm:"type:varchar(50);not null"`
	PaymentReference string          `gorm:"type:varchar(100)"`

	Status         settlement.Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	JournalEntryID *uuid.UUID        `gorm:"type:uuid"`
	CompletedAt    *time.Time

	Items []SettlementItemModel `gorm:"foreignKey:SettlementID;references:ID"`
}

// TableName returns the table name for GORM
func (SettlementModel) TableName() string {
	return "settlements"
}

// SettlementItemModel links a settlement to one order it covers.
type SettlementItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	SettlementID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Commission   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SettlementItemModel) TableName() string {
	return "settlement_items"
}

// ToDomain converts the persistence model to a domain Settlement entity.
func (m *SettlementModel) ToDomain() *settlement.Settlement {
	items := make([]settlement.Item, len(m.Items))
	for i, im := range m.Items {
		items[i] = settlement.Item{
			ID:           im.ID,
			SettlementID: im.SettlementID,
			OrderID:      im.OrderID,
			Amount:       im.Amount,
			VATAmount:    im.VATAmount,
			Commission:   im.Commission,
		}
	}

	s := &settlement.Settlement{
		SettlementNumber: m.SettlementNumber,
		RecipientType:    m.RecipientType,
		RecipientID:      m.RecipientID,
		TotalAmount:      m.TotalAmount,
		PaymentMethod:    m.PaymentMethod,
		PaymentReference: m.PaymentReference,
		Status:           m.Status,
		JournalEntryID:   m.JournalEntryID,
		CompletedAt:      m.CompletedAt,
		Items:            items,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Settlement entity.
func (m *SettlementModel) FromDomain(s *settlement.Settlement) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.SettlementNumber = s.SettlementNumber
	m.RecipientType = s.RecipientType
	m.RecipientID = s.RecipientID
	m.TotalAmount = s.TotalAmount
	m.PaymentMethod = s.PaymentMethod
	m.PaymentReference = s.PaymentReference
	m.Status = s.Status
	m.JournalEntryID = s.JournalEntryID
	m.CompletedAt = s.CompletedAt

	m.Items = make([]SettlementItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i] = SettlementItemModel{
			ID:           item.ID,
			SettlementID: s.ID,
			OrderID:      item.OrderID,
			Amount:       item.Amount,
			VATAmount:    item.VATAmount,
			Commission:   item.Commission,
		}
	}
}

// SettlementModelFromDomain creates a new persistence model from a domain Settlement.
func SettlementModelFromDomain(s *settlement.Settlement) *SettlementModel {
	m := &SettlementModel{}
	m.FromDomain(s)
	return m
}

// SettlementAdjustmentModel is the persistence model for refund claw-backs
// pending against a recipient's next settlement.
type SettlementAdjustmentModel struct {
	TenantAggregateModel
	RecipientType settlement.RecipientType `gorm:"type:varchar(20);not null;index:idx_adjustment_recipient,priority:1"`
	RecipientID   uuid.UUID                `gorm:"type:uuid;not null;index:idx_adjustment_recipient,priority:2"`

	OrderRefundID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemDetailID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	Status             settlement.AdjustmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	NettedSettlementID *uuid.UUID                  `gorm:"type:uuid"`
	NettedAt           *time.Time
}

// TableName returns the table name for GORM
func (SettlementAdjustmentModel) TableName() string {
	return "settlement_adjustments"
}

// ToDomain converts the persistence model to a domain Adjustment entity.
func (m *SettlementAdjustmentModel) ToDomain() *settlement.Adjustment {
	a := &settlement.Adjustment{
		RecipientType:      m.RecipientType,
		RecipientID:        m.RecipientID,
		OrderRefundID:      m.OrderRefundID,
		OrderItemDetailID:  m.OrderItemDetailID,
		Amount:             m.Amount,
		Status:             m.Status,
		NettedSettlementID: m.NettedSettlementID,
		NettedAt:           m.NettedAt,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Adjustment entity.
func (m *SettlementAdjustmentModel) FromDomain(a *settlement.Adjustment) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.RecipientType = a.RecipientType
	m.RecipientID = a.RecipientID
	m.OrderRefundID = a.OrderRefundID
	m.OrderItemDetailID = a.OrderItemDetailID
	m.Amount = a.Amount
	m.Status = a.Status
	m.NettedSettlementID = a.NettedSettlementID
	m.NettedAt = a.NettedAt
}

// SettlementAdjustmentModelFromDomain creates a new persistence model from a domain Adjustment.
func SettlementAdjustmentModelFromDomain(a *settlement.Adjustment) *SettlementAdjustmentModel {
	m := &SettlementAdjustmentModel{}
	m.FromDomain(a)
	return m
}
