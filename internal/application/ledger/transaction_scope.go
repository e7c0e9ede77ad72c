package ledger

import (
	"context"

	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/refund"
	"github.com/talabia/backend/internal/domain/settlement"
)

// TransactionScope provides transactional access to the reconciliation
// repositories. When a function is executed within a scope, all repository
// operations share one database transaction and commit or roll back
// atomically. Partial persistence (order row written, item details
// missing, or vice versa) is never an acceptable outcome.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error

	// ExecuteSerializable runs the function within a SERIALIZABLE
	// transaction. The money-moving write paths re-validate their
	// preconditions (outstanding due, cumulative refunds) inside the
	// transaction; the in-process keyed mutex does not serialize a second
	// application instance, so the database must.
	ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all reconciliation
// repositories within a transaction. Repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() ordering.OrderRepository
	// OrderItems returns the order line snapshot repository
	OrderItems() ordering.OrderItemDetailRepository
	// Settlements returns the settlement repository
	Settlements() settlement.Repository
	// Adjustments returns the settlement adjustment repository
	Adjustments() settlement.AdjustmentRepository
	// Refunds returns the order refund repository
	Refunds() refund.Repository
	// JournalEntries returns the append-only journal entry repository
	JournalEntries() journal.EntryRepository
	// Accounts returns the chart-of-accounts repository
	Accounts() journal.AccountRepository
}

// NoOpTransactionScope runs scope functions without a real transaction.
// Useful in tests where the repositories are mocks or in-memory fakes.
type NoOpTransactionScope struct {
	OrderRepo      ordering.OrderRepository
	OrderItemRepo  ordering.OrderItemDetailRepository
	SettlementRepo settlement.Repository
	AdjustmentRepo settlement.AdjustmentRepository
	RefundRepo     refund.Repository
	JournalRepo    journal.EntryRepository
	AccountRepo    journal.AccountRepository
}

// Execute runs the function directly against the configured repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExecuteSerializable runs the function directly, like Execute. Isolation
// is a property of the real database scope.
func (s *NoOpTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return s.Execute(ctx, fn)
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() ordering.OrderRepository { return s.OrderRepo }

// OrderItems returns the order line snapshot repository.
func (s *NoOpTransactionScope) OrderItems() ordering.OrderItemDetailRepository {
	return s.OrderItemRepo
}

// Settlements returns the settlement repository.
func (s *NoOpTransactionScope) Settlements() settlement.Repository { return s.SettlementRepo }

// Adjustments returns the settlement adjustment repository.
func (s *NoOpTransactionScope) Adjustments() settlement.AdjustmentRepository {
	return s.AdjustmentRepo
}

// Refunds returns the order refund repository.
func (s *NoOpTransactionScope) Refunds() refund.Repository { return s.RefundRepo }

// JournalEntries returns the journal entry repository.
func (s *NoOpTransactionScope) JournalEntries() journal.EntryRepository { return s.JournalRepo }

// Accounts returns the chart-of-accounts repository.
func (s *NoOpTransactionScope) Accounts() journal.AccountRepository { return s.AccountRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
