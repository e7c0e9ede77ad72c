package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/refund"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
)

// AccountingService exposes the reporting projections over the ledger:
// journal listings, the per-order financial picture and recipient due
// summaries. Strictly read-only.
type AccountingService struct {
	scope      TransactionScope
	settlement *SettlementService
}

// NewAccountingService creates a new AccountingService
func NewAccountingService(scope TransactionScope, settlementService *SettlementService) *AccountingService {
	return &AccountingService{
		scope:      scope,
		settlement: settlementService,
	}
}

// ListOrders returns a page of orders for a tenant
func (s *AccountingService) ListOrders(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ordering.Order], error) {
	var page shared.Paginated[ordering.Order]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.Orders().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
		total, err := repos.Orders().CountForTenant(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		page = shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListJournalEntries returns a page of journal entries for a tenant
func (s *AccountingService) ListJournalEntries(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[journal.Entry], error) {
	var page shared.Paginated[journal.Entry]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, err := repos.JournalEntries().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return fmt.Errorf("failed to list journal entries: %w", err)
		}
		total, err := repos.JournalEntries().CountForTenant(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to count journal entries: %w", err)
		}
		page = shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetJournalEntry loads one journal entry with its lines
func (s *AccountingService) GetJournalEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*journal.Entry, error) {
	var entry *journal.Entry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entry, err = repos.JournalEntries().FindByIDForTenant(ctx, tenantID, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// OrderFinancials is the complete financial picture of one order: the
// aggregate snapshot, the line snapshots with their refund state, the
// refunds applied and every journal entry that references the order or its
// refunds.
type OrderFinancials struct {
	Order   *ordering.Order            `json:"order"`
	Items   []ordering.OrderItemDetail `json:"items"`
	Refunds []refund.OrderRefund       `json:"refunds"`
	Entries []journal.Entry            `json:"entries"`
}

// OrderBreakdown assembles the financial picture of one order
func (s *AccountingService) OrderBreakdown(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderFinancials, error) {
	var result *OrderFinancials
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return err
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		items, err := repos.OrderItems().FindByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order lines: %w", err)
		}
		refunds, err := repos.Refunds().FindByOrder(ctx, tenantID, orderID)
		if err != nil {
			return fmt.Errorf("failed to load refunds: %w", err)
		}

		entries, err := repos.JournalEntries().FindByReference(ctx, tenantID, journal.ReferenceTypeOrder, orderID)
		if err != nil {
			return fmt.Errorf("failed to load journal entries: %w", err)
		}
		for _, r := range refunds {
			refundEntries, err := repos.JournalEntries().FindByReference(ctx, tenantID, journal.ReferenceTypeRefund, r.ID)
			if err != nil {
				return fmt.Errorf("failed to load refund journal entries: %w", err)
			}
			entries = append(entries, refundEntries...)
		}

		result = &OrderFinancials{
			Order:   order,
			Items:   items,
			Refunds: refunds,
			Entries: entries,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecipientDueSummary returns the recipient's settlement position together
// with their settlement history page.
type RecipientDueSummary struct {
	Due         *DueSummary             `json:"due"`
	Settlements []settlement.Settlement `json:"settlements"`
}

// DueSummary reports what the platform owes a recipient and the payouts
// made so far.
func (s *AccountingService) DueSummary(ctx context.Context, req DueRequest, filter shared.Filter) (*RecipientDueSummary, error) {
	due, err := s.settlement.OutstandingDue(ctx, req)
	if err != nil {
		return nil, err
	}

	var settlements []settlement.Settlement
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		settlements, err = repos.Settlements().FindAllForRecipient(ctx, req.TenantID, req.RecipientType, req.RecipientID, filter)
		if err != nil {
			return fmt.Errorf("failed to list settlements: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RecipientDueSummary{
		Due:         due,
		Settlements: settlements,
	}, nil
}
