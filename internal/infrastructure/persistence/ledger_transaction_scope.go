package persistence

import (
	"context"
	"database/sql"

	appledger "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/refund"
	"github.com/talabia/backend/internal/domain/settlement"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository
// operations across the reconciliation aggregates.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope.
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLedgerRepositories{tx: tx}
		return fn(repos)
	})
}

// ExecuteSerializable runs the given function within a SERIALIZABLE
// transaction. Settlements and refunds re-check their due/refundable
// amounts inside the transaction; serializable isolation makes that
// re-check hold across concurrent application instances, not just across
// goroutines of one process.
func (s *GormLedgerTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLedgerRepositories{tx: tx}
		return fn(repos)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// gormLedgerRepositories provides access to all reconciliation repositories
// within a transaction.
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// Orders returns the order repository scoped to the current transaction.
func (r *gormLedgerRepositories) Orders() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// OrderItems returns the line snapshot repository scoped to the current transaction.
func (r *gormLedgerRepositories) OrderItems() ordering.OrderItemDetailRepository {
	return NewGormOrderItemDetailRepository(r.tx)
}

// Settlements returns the settlement repository scoped to the current transaction.
func (r *gormLedgerRepositories) Settlements() settlement.Repository {
	return NewGormSettlementRepository(r.tx)
}

// Adjustments returns the adjustment repository scoped to the current transaction.
func (r *gormLedgerRepositories) Adjustments() settlement.AdjustmentRepository {
	return NewGormSettlementAdjustmentRepository(r.tx)
}

// Refunds returns the refund repository scoped to the current transaction.
func (r *gormLedgerRepositories) Refunds() refund.Repository {
	return NewGormOrderRefundRepository(r.tx)
}

// JournalEntries returns the journal entry repository scoped to the current transaction.
func (r *gormLedgerRepositories) JournalEntries() journal.EntryRepository {
	return NewGormJournalEntryRepository(r.tx)
}

// Accounts returns the chart-of-accounts repository scoped to the current transaction.
func (r *gormLedgerRepositories) Accounts() journal.AccountRepository {
	return NewGormChartOfAccountRepository(r.tx)
}

// Ensure GormLedgerTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)

// Ensure gormLedgerRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
