package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SettlementService computes outstanding dues and executes payouts against
// them. Settlement creation is serialized per recipient and the due is
// re-validated inside the payout transaction, so two concurrent payouts can
// never together exceed what is owed.
type SettlementService struct {
	scope  TransactionScope
	locks  keyedMutex
	logger *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(scope TransactionScope, logger *zap.Logger) *SettlementService {
	return &SettlementService{
		scope:  scope,
		logger: logger,
	}
}

// DueRequest identifies the recipient whose due is being computed
type DueRequest struct {
	TenantID      uuid.UUID
	RecipientType settlement.RecipientType
	RecipientID   uuid.UUID
}

// DueSummary is the recipient's current settlement position. The
// outstanding due is always recomputed from orders and completed
// settlements; it is never a stored running balance.
type DueSummary struct {
	RecipientType settlement.RecipientType `json:"recipient_type"`
	RecipientID   uuid.UUID                `json:"recipient_id"`

	GrossDelivered decimal.Decimal `json:"gross_delivered"`
	SettledTotal   decimal.Decimal `json:"settled_total"`
	OutstandingDue decimal.Decimal `json:"outstanding_due"`

	// PendingAdjustments is the refund claw-back trail awaiting netting.
	// Informational: the gross figure already reflects those reversals.
	PendingAdjustments decimal.Decimal `json:"pending_adjustments"`
}

// OutstandingDue recomputes what the platform currently owes a recipient:
// the sum of their share over delivered orders minus completed settlements.
func (s *SettlementService) OutstandingDue(ctx context.Context, req DueRequest) (*DueSummary, error) {
	if !req.RecipientType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECIPIENT_TYPE", "Invalid recipient type")
	}
	if req.RecipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}

	var summary *DueSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		summary, err = computeDue(ctx, repos, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// computeDue runs the due computation against the given repositories. Called
// both for the read-only query and for the in-transaction re-validation
// during payout, so both paths agree by construction.
func computeDue(ctx context.Context, repos TransactionalRepositories, req DueRequest) (*DueSummary, error) {
	var gross decimal.Decimal
	var err error
	switch req.RecipientType {
	case settlement.RecipientTypeMerchant:
		gross, err = repos.Orders().SumDeliveredMerchantPayout(ctx, req.TenantID, req.RecipientID)
	case settlement.RecipientTypeCourier:
		gross, err = repos.Orders().SumDeliveredDeliveryFees(ctx, req.TenantID, req.RecipientID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sum delivered amounts: %w", err)
	}

	settled, err := repos.Settlements().SumCompletedForRecipient(ctx, req.TenantID, req.RecipientType, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum completed settlements: %w", err)
	}

	pending, err := repos.Adjustments().SumPendingForRecipient(ctx, req.TenantID, req.RecipientType, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending adjustments: %w", err)
	}

	return &DueSummary{
		RecipientType:      req.RecipientType,
		RecipientID:        req.RecipientID,
		GrossDelivered:     shared.Round2(gross),
		SettledTotal:       shared.Round2(settled),
		OutstandingDue:     shared.Round2(gross.Sub(settled)),
		PendingAdjustments: shared.Round2(pending),
	}, nil
}

// CreateSettlementRequest represents a request to pay out (part of) a
// recipient's outstanding due
type CreateSettlementRequest struct {
	TenantID         uuid.UUID
	RecipientType    settlement.RecipientType
	RecipientID      uuid.UUID
	Amount           decimal.Decimal
	PaymentMethod    string
	PaymentReference string
}

// CreateSettlement pays out an amount against the recipient's outstanding
// due. The amount may cover the due partially but never exceed it; the due
// is recomputed inside the transaction so a stale read cannot let an
// overpayment through. The settlement, its order breakdown, the payout
// journal entry and the netting of pending adjustments commit atomically.
func (s *SettlementService) CreateSettlement(ctx context.Context, req CreateSettlementRequest) (*settlement.Settlement, error) {
	if !req.RecipientType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECIPIENT_TYPE", "Invalid recipient type")
	}
	if req.RecipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	unlock := s.locks.lock(settlementLockKey(req.TenantID, req.RecipientType, req.RecipientID))
	defer unlock()

	var created *settlement.Settlement
	txErr := s.scope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
		due, err := computeDue(ctx, repos, DueRequest{
			TenantID:      req.TenantID,
			RecipientType: req.RecipientType,
			RecipientID:   req.RecipientID,
		})
		if err != nil {
			return err
		}
		amount := shared.Round2(req.Amount)
		if amount.GreaterThan(due.OutstandingDue) {
			return shared.NewDomainError("OVERPAYMENT",
				fmt.Sprintf("Requested amount %s exceeds outstanding due %s", amount, due.OutstandingDue))
		}

		number, err := repos.Settlements().GenerateSettlementNumber(ctx, req.TenantID)
		if err != nil {
			return fmt.Errorf("failed to generate settlement number: %w", err)
		}

		stl, err := settlement.NewSettlement(req.TenantID, number, req.RecipientType,
			req.RecipientID, amount, req.PaymentMethod, req.PaymentReference)
		if err != nil {
			return err
		}

		if err := s.allocateOrders(ctx, repos, req, stl, amount); err != nil {
			return err
		}

		accounts, err := resolvePostingAccounts(ctx, repos.Accounts(), req.TenantID)
		if err != nil {
			return err
		}
		entryNumber, err := repos.JournalEntries().GenerateEntryNumber(ctx, req.TenantID)
		if err != nil {
			return fmt.Errorf("failed to generate journal entry number: %w", err)
		}
		entry, err := journal.NewEntry(req.TenantID, entryNumber, journal.ReferenceTypeSettlement, stl.ID,
			fmt.Sprintf("Settlement payout %s to %s %s", stl.SettlementNumber,
				stl.RecipientType, stl.RecipientID),
			settlementPayoutLines(accounts, stl))
		if err != nil {
			return err
		}
		if err := repos.JournalEntries().Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to create journal entry: %w", err)
		}

		if err := stl.Complete(entry.ID); err != nil {
			return err
		}
		if err := repos.Settlements().Save(ctx, stl); err != nil {
			return fmt.Errorf("failed to save settlement: %w", err)
		}

		if err := s.netPendingAdjustments(ctx, repos, req, stl.ID); err != nil {
			return err
		}

		created = stl
		return nil
	})
	if txErr != nil {
		return nil, asPersistenceFailure(s.logger, txErr, "settlement creation",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("recipient_id", req.RecipientID.String()))
	}

	s.logger.Info("settlement completed",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("settlement_number", created.SettlementNumber),
		zap.String("recipient_type", created.RecipientType.String()),
		zap.String("recipient_id", created.RecipientID.String()),
		zap.String("amount", created.TotalAmount.String()))

	return created, nil
}

// allocateOrders attaches the order-level breakdown, oldest delivered order
// first. An order gets an item only when the remaining amount covers its
// share in full; a residual that covers an order partially stays
// unallocated so that order remains eligible for the next settlement. The
// aggregate due math is unaffected either way.
func (s *SettlementService) allocateOrders(
	ctx context.Context,
	repos TransactionalRepositories,
	req CreateSettlementRequest,
	stl *settlement.Settlement,
	amount decimal.Decimal,
) error {
	var orders []ordering.Order
	var err error
	switch req.RecipientType {
	case settlement.RecipientTypeMerchant:
		orders, err = repos.Orders().FindDeliveredUnsettledByStore(ctx, req.TenantID, req.RecipientID)
	case settlement.RecipientTypeCourier:
		orders, err = repos.Orders().FindDeliveredUnsettledByCourier(ctx, req.TenantID, req.RecipientID)
	}
	if err != nil {
		return fmt.Errorf("failed to load unsettled orders: %w", err)
	}

	remaining := amount
	for _, order := range orders {
		if !remaining.IsPositive() {
			break
		}

		var share, vat, commission decimal.Decimal
		if req.RecipientType == settlement.RecipientTypeMerchant {
			share = order.MerchantPayout
			vat = order.VATOnProducts
			commission = order.CommissionTotal
		} else {
			share = order.DeliveryFeeExVAT
			vat = order.VATOnDelivery
			commission = decimal.Zero
		}
		if share.GreaterThan(remaining) {
			break
		}

		if err := stl.AddItem(order.ID, share, vat, commission); err != nil {
			return err
		}
		remaining = remaining.Sub(share)
	}
	return nil
}

// netPendingAdjustments marks the recipient's pending refund adjustments as
// consumed by this settlement, closing out the claw-back trail.
func (s *SettlementService) netPendingAdjustments(
	ctx context.Context,
	repos TransactionalRepositories,
	req CreateSettlementRequest,
	settlementID uuid.UUID,
) error {
	adjustments, err := repos.Adjustments().FindPendingForRecipient(ctx, req.TenantID, req.RecipientType, req.RecipientID)
	if err != nil {
		return fmt.Errorf("failed to load pending adjustments: %w", err)
	}
	for i := range adjustments {
		adj := &adjustments[i]
		if err := adj.MarkNetted(settlementID); err != nil {
			return err
		}
		if err := repos.Adjustments().Save(ctx, adj); err != nil {
			return fmt.Errorf("failed to save adjustment: %w", err)
		}
	}
	return nil
}

func settlementLockKey(tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) string {
	return fmt.Sprintf("settlement:%s:%s:%s", tenantID, recipientType, recipientID)
}
