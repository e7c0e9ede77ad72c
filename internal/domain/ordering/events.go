package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/shared"
)

// Event types for the ordering context
const (
	EventTypeOrderCreated   = "ordering.order.created"
	EventTypeOrderDelivered = "ordering.order.delivered"
)

// OrderCreatedEvent is raised when an order and its financial snapshot
// are persisted at checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	StoreID     uuid.UUID `json:"store_id"`
	OrderTotal  string    `json:"order_total"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:            uuid.New(),
			Type:          EventTypeOrderCreated,
			Timestamp:     time.Now(),
			AggID:         o.ID,
			AggType:       "Order",
			TenantIDValue: o.TenantID,
		},
		OrderNumber: o.OrderNumber,
		StoreID:     o.StoreID,
		OrderTotal:  o.OrderTotal.String(),
	}
}

// OrderDeliveredEvent is raised when an order transitions to delivered,
// which is the moment its payout figures start counting toward dues
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string    `json:"order_number"`
	StoreID        uuid.UUID `json:"store_id"`
	MerchantPayout string    `json:"merchant_payout"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:            uuid.New(),
			Type:          EventTypeOrderDelivered,
			Timestamp:     time.Now(),
			AggID:         o.ID,
			AggType:       "Order",
			TenantIDValue: o.TenantID,
		},
		OrderNumber:    o.OrderNumber,
		StoreID:        o.StoreID,
		MerchantPayout: o.MerchantPayout.String(),
	}
}
