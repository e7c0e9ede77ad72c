package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// RecipientType identifies who a settlement pays out
type RecipientType string

const (
	// RecipientTypeMerchant settles accumulated merchant payouts
	RecipientTypeMerchant RecipientType = "MERCHANT"
	// RecipientTypeCourier settles accumulated delivery fees
	RecipientTypeCourier RecipientType = "COURIER"
)

// IsValid checks if the recipient type is valid
func (t RecipientType) IsValid() bool {
	return t == RecipientTypeMerchant || t == RecipientTypeCourier
}

// String returns the string representation of RecipientType
func (t RecipientType) String() string {
	return string(t)
}

// Status represents the status of a settlement
type Status string

const (
	// StatusPending indicates the payout was initiated but not confirmed
	StatusPending Status = "PENDING"
	// StatusCompleted indicates the payout is final; completed settlements
	// are immutable
	StatusCompleted Status = "COMPLETED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Settlement is one payout event clearing some or all of a recipient's
// outstanding due. Once completed it is immutable; corrections are applied
// as adjustments netted against the next settlement.
type Settlement struct {
	shared.TenantAggregateRoot

	SettlementNumber string        `json:"settlement_number"`
	RecipientType    RecipientType `json:"recipient_type"`
	RecipientID      uuid.UUID     `json:"recipient_id"`

	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`

	Status         Status     `json:"status"`
	JournalEntryID *uuid.UUID `json:"journal_entry_id"`
	CompletedAt    *time.Time `json:"completed_at"`

	Items []Item `json:"items"`
}

// Item is the line-level breakdown linking a settlement to the orders it
// covers, carrying the figures that were the basis for that portion of the
// payout.
type Item struct {
	ID           uuid.UUID       `json:"id"`
	SettlementID uuid.UUID       `json:"settlement_id"`
	OrderID      uuid.UUID       `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	Commission   decimal.Decimal `json:"commission"`
}

// NewSettlement creates a pending settlement for a recipient
func NewSettlement(
	tenantID uuid.UUID,
	settlementNumber string,
	recipientType RecipientType,
	recipientID uuid.UUID,
	amount decimal.Decimal,
	paymentMethod, paymentReference string,
) (*Settlement, error) {
	if settlementNumber == "" {
		return nil, shared.NewDomainError("INVALID_SETTLEMENT_NUMBER", "Settlement number cannot be empty")
	}
	if !recipientType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECIPIENT_TYPE", "Invalid recipient type")
	}
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}

	return &Settlement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SettlementNumber:    settlementNumber,
		RecipientType:       recipientType,
		RecipientID:         recipientID,
		TotalAmount:         shared.Round2(amount),
		PaymentMethod:       paymentMethod,
		PaymentReference:    paymentReference,
		Status:              StatusPending,
		Items:               make([]Item, 0),
	}, nil
}

// AddItem attaches an order-level breakdown line to the settlement
func (s *Settlement) AddItem(orderID uuid.UUID, amount, vatAmount, commission decimal.Decimal) error {
	if s.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed settlements are immutable")
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if amount.IsNegative() {
		return shared.ErrInvalidAmount
	}

	s.Items = append(s.Items, Item{
		ID:           uuid.New(),
		SettlementID: s.ID,
		OrderID:      orderID,
		Amount:       amount,
		VATAmount:    vatAmount,
		Commission:   commission,
	})
	return nil
}

// Complete marks the settlement as paid out and links the journal entry
// documenting the payout. Idempotent for an already-completed settlement
// with the same journal entry.
func (s *Settlement) Complete(journalEntryID uuid.UUID) error {
	if journalEntryID == uuid.Nil {
		return shared.NewDomainError("INVALID_JOURNAL_ENTRY", "Journal entry ID cannot be empty")
	}
	if s.Status == StatusCompleted {
		if s.JournalEntryID != nil && *s.JournalEntryID == journalEntryID {
			return nil
		}
		return shared.NewDomainError("INVALID_STATE", "Completed settlements are immutable")
	}

	now := time.Now()
	s.Status = StatusCompleted
	s.JournalEntryID = &journalEntryID
	s.CompletedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSettlementCompletedEvent(s))

	return nil
}

// IsCompleted returns true if the settlement has been completed
func (s *Settlement) IsCompleted() bool {
	return s.Status == StatusCompleted
}
