package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/shared"
)

// Event types for the settlement context
const (
	EventTypeSettlementCompleted = "settlement.completed"
)

// SettlementCompletedEvent is raised when a payout is finalized
type SettlementCompletedEvent struct {
	shared.BaseDomainEvent
	SettlementNumber string        `json:"settlement_number"`
	RecipientType    RecipientType `json:"recipient_type"`
	RecipientID      uuid.UUID     `json:"recipient_id"`
	TotalAmount      string        `json:"total_amount"`
}

// NewSettlementCompletedEvent creates a new SettlementCompletedEvent
func NewSettlementCompletedEvent(s *Settlement) *SettlementCompletedEvent {
	return &SettlementCompletedEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:            uuid.New(),
			Type:          EventTypeSettlementCompleted,
			Timestamp:     time.Now(),
			AggID:         s.ID,
			AggType:       "Settlement",
			TenantIDValue: s.TenantID,
		},
		SettlementNumber: s.SettlementNumber,
		RecipientType:    s.RecipientType,
		RecipientID:      s.RecipientID,
		TotalAmount:      s.TotalAmount.String(),
	}
}
