package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	// OrderStatusPending indicates the order was placed and awaits store acceptance
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusAccepted indicates the store accepted the order
	OrderStatusAccepted OrderStatus = "ACCEPTED"
	// OrderStatusPreparing indicates the store is preparing the order
	OrderStatusPreparing OrderStatus = "PREPARING"
	// OrderStatusReady indicates the order is ready for pickup by a courier
	OrderStatusReady OrderStatus = "READY"
	// OrderStatusPickedUp indicates a courier picked up the order
	OrderStatusPickedUp OrderStatus = "PICKED_UP"
	// OrderStatusDelivered indicates the order reached the customer;
	// only delivered orders count toward settlement dues
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled indicates the order was cancelled before delivery
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing,
		OrderStatusReady, OrderStatusPickedUp, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the order is in a terminal state
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// canTransitionTo encodes the allowed lifecycle transitions
func (s OrderStatus) canTransitionTo(next OrderStatus) bool {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusAccepted, OrderStatusCancelled},
		OrderStatusAccepted:  {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
		OrderStatusReady:     {OrderStatusPickedUp, OrderStatusCancelled},
		OrderStatusPickedUp:  {OrderStatusDelivered},
	}
	for _, n := range allowed[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Order is one purchase from one store by one customer. Its financial
// fields are the immutable decomposition snapshot taken at checkout; they
// are never recomputed from live configuration. The only writers after
// creation are status transitions and the refund reversal engine, which
// adjusts payout/commission figures downward.
type Order struct {
	shared.TenantAggregateRoot

	OrderNumber string      `json:"order_number"`
	StoreID     uuid.UUID   `json:"store_id"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	CourierID   *uuid.UUID  `json:"courier_id"`
	Status      OrderStatus `json:"status"`

	// Product amounts
	SubtotalExVAT  decimal.Decimal `json:"subtotal_ex_vat"`
	SubtotalIncVAT decimal.Decimal `json:"subtotal_inc_vat"`
	VATOnProducts  decimal.Decimal `json:"vat_on_products"`

	// Delivery amounts
	DeliveryFee      decimal.Decimal `json:"delivery_fee"` // inc-VAT
	DeliveryFeeExVAT decimal.Decimal `json:"delivery_fee_ex_vat"`
	VATOnDelivery    decimal.Decimal `json:"vat_on_delivery"`

	// Platform commission and what remains for the merchant
	CommissionExVAT decimal.Decimal `json:"commission_ex_vat"`
	CommissionVAT   decimal.Decimal `json:"commission_vat"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	MerchantPayout  decimal.Decimal `json:"merchant_payout"`

	OrderTotal decimal.Decimal `json:"order_total"`

	// Rate snapshot used for the decomposition
	VATPercent        decimal.Decimal `json:"vat_percent"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`

	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
}

// NewOrder creates an order from a computed breakdown. The breakdown's
// aggregate figures are copied verbatim; the order never re-derives them.
func NewOrder(
	tenantID uuid.UUID,
	orderNumber string,
	storeID, customerID uuid.UUID,
	bd *OrderBreakdown,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if bd == nil {
		return nil, shared.NewDomainError("INVALID_BREAKDOWN", "Order breakdown cannot be nil")
	}
	if len(bd.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_BREAKDOWN", "Order must have at least one line")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		StoreID:             storeID,
		CustomerID:          customerID,
		Status:              OrderStatusPending,
		SubtotalExVAT:       bd.SubtotalExVAT,
		SubtotalIncVAT:      bd.SubtotalIncVAT,
		VATOnProducts:       bd.VATOnProducts,
		DeliveryFee:         bd.DeliveryFee,
		DeliveryFeeExVAT:    bd.DeliveryFeeExVAT,
		VATOnDelivery:       bd.VATOnDelivery,
		CommissionExVAT:     bd.CommissionExVAT,
		CommissionVAT:       bd.CommissionVAT,
		CommissionTotal:     bd.CommissionTotal,
		MerchantPayout:      bd.MerchantPayout,
		OrderTotal:          bd.OrderTotal,
		VATPercent:          bd.VATPercent,
		CommissionPercent:   bd.CommissionPercent,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// TransitionTo moves the order through its lifecycle. Illegal transitions
// are rejected with INVALID_STATE.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid order status")
	}
	if !o.Status.canTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, next))
	}

	now := time.Now()
	o.Status = next
	o.UpdatedAt = now
	o.IncrementVersion()

	switch next {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	return nil
}

// AssignCourier attaches the courier who will deliver the order
func (o *Order) AssignCourier(courierID uuid.UUID) error {
	if courierID == uuid.Nil {
		return shared.NewDomainError("INVALID_COURIER", "Courier ID cannot be empty")
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot assign courier in %s status", o.Status))
	}
	o.CourierID = &courierID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// ApplyRefund reduces the order's commission and payout figures by the
// reversed portion. Called only by the refund reversal engine; the original
// per-line snapshot stays intact in OrderItemDetail.
func (o *Order) ApplyRefund(commissionExVAT, commissionVAT, merchantPayout decimal.Decimal) error {
	if commissionExVAT.IsNegative() || commissionVAT.IsNegative() || merchantPayout.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund adjustment amounts cannot be negative")
	}

	newPayout := o.MerchantPayout.Sub(merchantPayout)
	if newPayout.IsNegative() {
		return shared.ErrOverRefund
	}

	o.CommissionExVAT = o.CommissionExVAT.Sub(commissionExVAT)
	o.CommissionVAT = o.CommissionVAT.Sub(commissionVAT)
	o.CommissionTotal = o.CommissionExVAT.Add(o.CommissionVAT)
	o.MerchantPayout = newPayout
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsDelivered returns true if the order has been delivered
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}
