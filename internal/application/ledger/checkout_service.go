package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/rates"
	"github.com/talabia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckoutService creates orders with their immutable financial snapshot.
// The decomposition, the order row, the per-line snapshots and the capture
// journal entry are written in one transaction: either the full snapshot
// exists or none of it does.
type CheckoutService struct {
	scope        TransactionScope
	rateProvider rates.Provider
	logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope, rateProvider rates.Provider, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		scope:        scope,
		rateProvider: rateProvider,
		logger:       logger,
	}
}

// CreateOrderRequest represents a request to create an order from a cart
type CreateOrderRequest struct {
	TenantID    uuid.UUID
	StoreID     uuid.UUID
	CustomerID  uuid.UUID
	Lines       []ordering.CartLine
	DeliveryFee decimal.Decimal // inc-VAT
}

// CreateOrderResult carries the created order and its line snapshots
type CreateOrderResult struct {
	Order          *ordering.Order            `json:"order"`
	Items          []ordering.OrderItemDetail `json:"items"`
	JournalEntryID uuid.UUID                  `json:"journal_entry_id"`
}

// CreateOrder resolves the tenant's current rates, decomposes the cart,
// and persists the order, its per-line financial snapshots and the capture
// journal entry atomically.
func (s *CheckoutService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order must have at least one cart line")
	}

	currentRates, err := s.rateProvider.CurrentRates(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rates: %w", err)
	}

	breakdown, err := ordering.Decompose(req.Lines, req.DeliveryFee, currentRates)
	if err != nil {
		return nil, err
	}

	var result *CreateOrderResult
	txErr := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		accounts, err := resolvePostingAccounts(ctx, repos.Accounts(), req.TenantID)
		if err != nil {
			return err
		}

		orderNumber, err := repos.Orders().GenerateOrderNumber(ctx, req.TenantID)
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		order, err := ordering.NewOrder(req.TenantID, orderNumber, req.StoreID, req.CustomerID, breakdown)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		items := make([]ordering.OrderItemDetail, 0, len(breakdown.Lines))
		for _, lb := range breakdown.Lines {
			detail, err := ordering.NewOrderItemDetail(req.TenantID, order.ID, lb,
				breakdown.VATPercent, breakdown.CommissionPercent)
			if err != nil {
				return err
			}
			if err := repos.OrderItems().Save(ctx, detail); err != nil {
				return fmt.Errorf("failed to save order line snapshot: %w", err)
			}
			items = append(items, *detail)
		}

		entry, err := s.postCaptureEntry(ctx, repos, accounts, order)
		if err != nil {
			return err
		}

		result = &CreateOrderResult{
			Order:          order,
			Items:          items,
			JournalEntryID: entry.ID,
		}
		return nil
	})
	if txErr != nil {
		return nil, asPersistenceFailure(s.logger, txErr, "order creation",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("store_id", req.StoreID.String()))
	}

	s.logger.Info("order created",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("order_number", result.Order.OrderNumber),
		zap.String("order_total", result.Order.OrderTotal.String()),
		zap.String("merchant_payout", result.Order.MerchantPayout.String()))

	return result, nil
}

// postCaptureEntry writes the balanced journal entry documenting the order
// payment capture.
func (s *CheckoutService) postCaptureEntry(
	ctx context.Context,
	repos TransactionalRepositories,
	accounts *postingAccounts,
	order *ordering.Order,
) (*journalEntryRef, error) {
	// A zero-total order moves no money; there is nothing to post.
	if order.OrderTotal.IsZero() {
		return &journalEntryRef{}, nil
	}

	entryNumber, err := repos.JournalEntries().GenerateEntryNumber(ctx, order.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate journal entry number: %w", err)
	}

	entry, err := newOrderCaptureEntry(order.TenantID, entryNumber, order, accounts)
	if err != nil {
		return nil, err
	}
	if err := repos.JournalEntries().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	return &journalEntryRef{ID: entry.ID, EntryNumber: entry.EntryNumber}, nil
}

// journalEntryRef is the minimal handle services pass around after posting
type journalEntryRef struct {
	ID          uuid.UUID
	EntryNumber string
}

// asPersistenceFailure keeps domain rejections intact and folds everything
// else under the persistence-failure code so callers know the transaction
// rolled back.
func asPersistenceFailure(logger *zap.Logger, err error, operation string, fields ...zap.Field) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	logger.Error(operation+" failed, transaction rolled back", append(fields, zap.Error(err))...)
	return fmt.Errorf("%w: %s", shared.ErrPersistenceFailure, err.Error())
}
