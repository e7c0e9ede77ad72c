package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/refund"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RefundService reverses order line financials. A reversal updates the
// line's cumulative refund state, reduces the order's payout figures,
// writes the refund record with its offsetting journal entry, and raises a
// settlement adjustment when the refunded money was already paid out.
// Reversals against the same line are serialized, and replayed requests
// are rejected through the idempotency store.
type RefundService struct {
	scope       TransactionScope
	locks       keyedMutex
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewRefundService creates a new RefundService
func NewRefundService(scope TransactionScope, idempotency shared.IdempotencyStore, logger *zap.Logger) *RefundService {
	return &RefundService{
		scope:       scope,
		idempotency: idempotency,
		ttl:         shared.DefaultIdempotencyConfig().TTL,
		logger:      logger,
	}
}

// RefundLineRequest represents a request to refund (part of) an order line
type RefundLineRequest struct {
	TenantID          uuid.UUID
	OrderID           uuid.UUID
	OrderItemDetailID uuid.UUID
	RefundType        refund.Type
	// Amount is the inc-VAT portion to reverse. Required for partial
	// refunds, ignored for full refunds.
	Amount decimal.Decimal
	Reason string
	// IdempotencyKey lets callers retry safely; a key that was already
	// processed is rejected instead of refunding twice.
	IdempotencyKey string
}

// RefundLine applies one refund against one order line. All state changes
// commit in a single transaction; a failure leaves the line exactly as it
// was.
func (s *RefundService) RefundLine(ctx context.Context, req RefundLineRequest) (*refund.OrderRefund, error) {
	if !req.RefundType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFUND_TYPE", "Invalid refund type")
	}
	if req.RefundType == refund.TypePartial && !req.Amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	if req.IdempotencyKey != "" {
		processed, err := s.idempotency.IsProcessed(ctx, s.idempotencyID(req))
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if processed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST",
				"A refund with this idempotency key was already processed")
		}
	}

	unlock := s.locks.lock(refundLockKey(req.TenantID, req.OrderItemDetailID))
	defer unlock()

	var created *refund.OrderRefund
	txErr := s.scope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
		line, err := repos.OrderItems().FindByIDForTenant(ctx, req.TenantID, req.OrderItemDetailID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
			}
			return fmt.Errorf("failed to load order line: %w", err)
		}
		if req.OrderID != uuid.Nil && line.OrderID != req.OrderID {
			return shared.NewDomainError("INVALID_INPUT", "Order line does not belong to the given order")
		}

		order, err := repos.Orders().FindByIDForTenant(ctx, req.TenantID, line.OrderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if !order.IsDelivered() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot refund a line of an order in %s status", order.Status))
		}

		rev, err := s.computeReversal(line, req)
		if err != nil {
			return err
		}

		if err := line.RecordRefund(rev.AmountIncVAT); err != nil {
			return err
		}
		if err := repos.OrderItems().SaveWithLock(ctx, line); err != nil {
			return fmt.Errorf("failed to save order line: %w", err)
		}

		if err := order.ApplyRefund(rev.CommissionExVAT, rev.CommissionVAT, rev.MerchantPayout); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		orderRefund, err := refund.NewOrderRefund(req.TenantID, order.ID, line.ID, req.RefundType, req.Reason, rev)
		if err != nil {
			return err
		}

		entry, err := s.postReversalEntry(ctx, repos, order.TenantID, orderRefund, rev)
		if err != nil {
			return err
		}
		if err := orderRefund.LinkJournalEntry(entry.ID); err != nil {
			return err
		}

		if err := s.raiseAdjustmentIfSettled(ctx, repos, order, line.ID, orderRefund, rev); err != nil {
			return err
		}

		if err := repos.Refunds().Save(ctx, orderRefund); err != nil {
			return fmt.Errorf("failed to save refund: %w", err)
		}

		created = orderRefund
		return nil
	})
	if txErr != nil {
		return nil, asPersistenceFailure(s.logger, txErr, "refund",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("order_item_detail_id", req.OrderItemDetailID.String()))
	}

	// The key is burned only after the commit, so a rolled-back attempt
	// can be retried with the same key.
	if req.IdempotencyKey != "" {
		if _, err := s.idempotency.MarkProcessed(ctx, s.idempotencyID(req), s.ttl); err != nil {
			s.logger.Warn("failed to mark refund idempotency key",
				zap.String("tenant_id", req.TenantID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("refund processed",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("order_id", created.OrderID.String()),
		zap.String("refund_type", created.RefundType.String()),
		zap.String("amount_inc_vat", created.AmountIncVAT.String()),
		zap.String("payout_reversed", created.MerchantPayout.String()))

	return created, nil
}

// computeReversal derives the reversal figures from the line's own rate
// snapshot. A full refund on a partially refunded line is rejected as an
// over-refund; the remainder must be taken as a partial refund.
func (s *RefundService) computeReversal(line *ordering.OrderItemDetail, req RefundLineRequest) (refund.Reversal, error) {
	if req.RefundType == refund.TypeFull {
		if line.IsRefunded {
			return refund.Reversal{}, shared.ErrAlreadyRefunded
		}
		if line.RefundedAmount.IsPositive() {
			return refund.Reversal{}, shared.ErrOverRefund
		}
		return refund.ComputeFullReversal(line), nil
	}
	return refund.ComputePartialReversal(line, req.Amount)
}

// postReversalEntry writes the journal entry mirroring the capture entry
// for the refunded portion.
func (s *RefundService) postReversalEntry(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID uuid.UUID,
	orderRefund *refund.OrderRefund,
	rev refund.Reversal,
) (*journal.Entry, error) {
	accounts, err := resolvePostingAccounts(ctx, repos.Accounts(), tenantID)
	if err != nil {
		return nil, err
	}
	entryNumber, err := repos.JournalEntries().GenerateEntryNumber(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate journal entry number: %w", err)
	}
	entry, err := journal.NewEntry(tenantID, entryNumber, journal.ReferenceTypeRefund, orderRefund.ID,
		fmt.Sprintf("%s refund reversal for order %s", orderRefund.RefundType, orderRefund.OrderID),
		refundReversalLines(accounts, rev))
	if err != nil {
		return nil, err
	}
	if err := repos.JournalEntries().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return entry, nil
}

// raiseAdjustmentIfSettled creates a pending settlement adjustment when the
// refunded payout was already part of a completed settlement to the
// merchant. Completed settlements are immutable; the claw-back is netted
// against the merchant's next payout instead.
func (s *RefundService) raiseAdjustmentIfSettled(
	ctx context.Context,
	repos TransactionalRepositories,
	order *ordering.Order,
	lineID uuid.UUID,
	orderRefund *refund.OrderRefund,
	rev refund.Reversal,
) error {
	if !rev.MerchantPayout.IsPositive() {
		return nil
	}

	settledIDs, err := repos.Settlements().SettledOrderIDs(ctx, order.TenantID,
		settlement.RecipientTypeMerchant, order.StoreID)
	if err != nil {
		return fmt.Errorf("failed to load settled order IDs: %w", err)
	}
	settled := false
	for _, id := range settledIDs {
		if id == order.ID {
			settled = true
			break
		}
	}
	if !settled {
		return nil
	}

	adj, err := settlement.NewAdjustment(order.TenantID, settlement.RecipientTypeMerchant,
		order.StoreID, orderRefund.ID, lineID, rev.MerchantPayout)
	if err != nil {
		return err
	}
	if err := repos.Adjustments().Save(ctx, adj); err != nil {
		return fmt.Errorf("failed to save adjustment: %w", err)
	}
	return orderRefund.LinkAdjustment(adj.ID)
}

func (s *RefundService) idempotencyID(req RefundLineRequest) string {
	return fmt.Sprintf("refund:%s:%s", req.TenantID, req.IdempotencyKey)
}

func refundLockKey(tenantID, lineID uuid.UUID) string {
	return fmt.Sprintf("refund:%s:%s", tenantID, lineID)
}
