package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	StoreID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	CourierID   *uuid.UUID           `gorm:"type:uuid;index"`
	Status      ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	SubtotalExVAT  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SubtotalIncVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATOnProducts  decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	DeliveryFee      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeliveryFeeExVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATOnDelivery    decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	CommissionExVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionVAT   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MerchantPayout  decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	OrderTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	VATPercent        decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(8,4);not null"`

	DeliveredAt *time.Time `gorm:"index"`
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *ordering.Order {
	o := &ordering.Order{
		OrderNumber:       m.OrderNumber,
		StoreID:           m.StoreID,
		CustomerID:        m.CustomerID,
		CourierID:         m.CourierID,
		Status:            m.Status,
		SubtotalExVAT:     m.SubtotalExVAT,
		SubtotalIncVAT:    m.SubtotalIncVAT,
		VATOnProducts:     m.VATOnProducts,
		DeliveryFee:       m.DeliveryFee,
		DeliveryFeeExVAT:  m.DeliveryFeeExVAT,
		VATOnDelivery:     m.VATOnDelivery,
		CommissionExVAT:   m.CommissionExVAT,
		CommissionVAT:     m.CommissionVAT,
		CommissionTotal:   m.CommissionTotal,
		MerchantPayout:    m.MerchantPayout,
		OrderTotal:        m.OrderTotal,
		VATPercent:        m.VATPercent,
		CommissionPercent: m.CommissionPercent,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.StoreID = o.StoreID
	m.CustomerID = o.CustomerID
	m.CourierID = o.CourierID
	m.Status = o.Status
	m.SubtotalExVAT = o.SubtotalExVAT
	m.SubtotalIncVAT = o.SubtotalIncVAT
	m.VATOnProducts = o.VATOnProducts
	m.DeliveryFee = o.DeliveryFee
	m.DeliveryFeeExVAT = o.DeliveryFeeExVAT
	m.VATOnDelivery = o.VATOnDelivery
	m.CommissionExVAT = o.CommissionExVAT
	m.CommissionVAT = o.CommissionVAT
	m.CommissionTotal = o.CommissionTotal
	m.MerchantPayout = o.MerchantPayout
	m.OrderTotal = o.OrderTotal
	m.VATPercent = o.VATPercent
	m.CommissionPercent = o.CommissionPercent
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemDetailModel is the persistence model for the per-line financial
// snapshot.
type OrderItemDetailModel struct {
	TenantAggregateModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID string    `gorm:"type:varchar(100);not null"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Quantity  int64     `gorm:"not null"`

	UnitPriceIncVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPriceExVAT  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SubtotalExVAT   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionExVAT decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionVAT   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MerchantPayout  decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	VATPercent        decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(8,4);not null"`

	RefundedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsRefunded     bool            `gorm:"not null;default:false;index"`
	RefundedAt     *time.Time
}

// TableName returns the table name for GORM
func (OrderItemDetailModel) TableName() string {
	return "order_item_details"
}

// ToDomain converts the persistence model to a domain OrderItemDetail entity.
func (m *OrderItemDetailModel) ToDomain() *ordering.OrderItemDetail {
	d := &ordering.OrderItemDetail{
		OrderID:           m.OrderID,
		ProductID:         m.ProductID,
		Name:              m.Name,
		Quantity:          m.Quantity,
		UnitPriceIncVAT:   m.UnitPriceIncVAT,
		UnitPriceExVAT:    m.UnitPriceExVAT,
		SubtotalExVAT:     m.SubtotalExVAT,
		VATAmount:         m.VATAmount,
		LineTotal:         m.LineTotal,
		CommissionExVAT:   m.CommissionExVAT,
		CommissionVAT:     m.CommissionVAT,
		CommissionTotal:   m.CommissionTotal,
		MerchantPayout:    m.MerchantPayout,
		VATPercent:        m.VATPercent,
		CommissionPercent: m.CommissionPercent,
		RefundedAmount:    m.RefundedAmount,
		IsRefunded:        m.IsRefunded,
		RefundedAt:        m.RefundedAt,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain OrderItemDetail entity.
func (m *OrderItemDetailModel) FromDomain(d *ordering.OrderItemDetail) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.OrderID = d.OrderID
	m.ProductID = d.ProductID
	m.Name = d.Name
	m.Quantity = d.Quantity
	m.UnitPriceIncVAT = d.UnitPriceIncVAT
	m.UnitPriceExVAT = d.UnitPriceExVAT
	m.SubtotalExVAT = d.SubtotalExVAT
	m.VATAmount = d.VATAmount
	m.LineTotal = d.LineTotal
	m.CommissionExVAT = d.CommissionExVAT
	m.CommissionVAT = d.CommissionVAT
	m.CommissionTotal = d.CommissionTotal
	m.MerchantPayout = d.MerchantPayout
	m.VATPercent = d.VATPercent
	m.CommissionPercent = d.CommissionPercent
	m.RefundedAmount = d.RefundedAmount
	m.IsRefunded = d.IsRefunded
	m.RefundedAt = d.RefundedAt
}

// OrderItemDetailModelFromDomain creates a new persistence model from a domain OrderItemDetail.
func OrderItemDetailModelFromDomain(d *ordering.OrderItemDetail) *OrderItemDetailModel {
	m := &OrderItemDetailModel{}
	m.FromDomain(d)
	return m
}
