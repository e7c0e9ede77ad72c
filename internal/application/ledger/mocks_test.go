package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/rates"
	"github.com/talabia/backend/internal/domain/refund"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindDeliveredUnsettledByStore(ctx context.Context, tenantID, storeID uuid.UUID) ([]ordering.Order, error) {
	args := m.Called(ctx, tenantID, storeID)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindDeliveredUnsettledByCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]ordering.Order, error) {
	args := m.Called(ctx, tenantID, courierID)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) SumDeliveredMerchantPayout(ctx context.Context, tenantID, storeID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, storeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderRepository) SumDeliveredDeliveryFees(ctx context.Context, tenantID, courierID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, courierID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockOrderItemDetailRepository is a mock implementation of ordering.OrderItemDetailRepository
type MockOrderItemDetailRepository struct {
	mock.Mock
}

func (m *MockOrderItemDetailRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.OrderItemDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.OrderItemDetail), args.Error(1)
}

func (m *MockOrderItemDetailRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.OrderItemDetail, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.OrderItemDetail), args.Error(1)
}

func (m *MockOrderItemDetailRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderItemDetail, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]ordering.OrderItemDetail), args.Error(1)
}

func (m *MockOrderItemDetailRepository) Save(ctx context.Context, detail *ordering.OrderItemDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *MockOrderItemDetailRepository) SaveWithLock(ctx context.Context, detail *ordering.OrderItemDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

// MockSettlementRepository is a mock implementation of settlement.Repository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindAllForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID, filter shared.Filter) ([]settlement.Settlement, error) {
	args := m.Called(ctx, tenantID, recipientType, recipientID, filter)
	return args.Get(0).([]settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) SumCompletedForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, recipientType, recipientID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettlementRepository) SettledOrderIDs(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID, recipientType, recipientID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSettlementRepository) Save(ctx context.Context, stl *settlement.Settlement) error {
	args := m.Called(ctx, stl)
	return args.Error(0)
}

func (m *MockSettlementRepository) GenerateSettlementNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockAdjustmentRepository is a mock implementation of settlement.AdjustmentRepository
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Adjustment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindPendingForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) ([]settlement.Adjustment, error) {
	args := m.Called(ctx, tenantID, recipientType, recipientID)
	return args.Get(0).([]settlement.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) SumPendingForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, recipientType, recipientID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAdjustmentRepository) Save(ctx context.Context, adjustment *settlement.Adjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

// MockRefundRepository is a mock implementation of refund.Repository
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*refund.OrderRefund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.OrderRefund), args.Error(1)
}

func (m *MockRefundRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*refund.OrderRefund, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.OrderRefund), args.Error(1)
}

func (m *MockRefundRepository) FindByLine(ctx context.Context, tenantID, orderItemDetailID uuid.UUID) ([]refund.OrderRefund, error) {
	args := m.Called(ctx, tenantID, orderItemDetailID)
	return args.Get(0).([]refund.OrderRefund), args.Error(1)
}

func (m *MockRefundRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]refund.OrderRefund, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]refund.OrderRefund), args.Error(1)
}

func (m *MockRefundRepository) SumPayoutReversedByStore(ctx context.Context, tenantID, storeID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, storeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRefundRepository) Save(ctx context.Context, r *refund.OrderRefund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockJournalEntryRepository is a mock implementation of journal.EntryRepository
type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Entry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*journal.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Entry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, referenceType journal.ReferenceType, referenceID uuid.UUID) ([]journal.Entry, error) {
	args := m.Called(ctx, tenantID, referenceType, referenceID)
	return args.Get(0).([]journal.Entry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]journal.Entry, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]journal.Entry), args.Error(1)
}

func (m *MockJournalEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalEntryRepository) Create(ctx context.Context, entry *journal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) GenerateEntryNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockAccountRepository is a mock implementation of journal.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*journal.ChartOfAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*journal.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]journal.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]journal.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *journal.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockSettingRepository is a mock implementation of rates.SettingRepository
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rates.Setting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rates.Setting), args.Error(1)
}

func (m *MockSettingRepository) FindActiveByAppliesTo(ctx context.Context, tenantID uuid.UUID, appliesTo rates.AppliesTo) (*rates.Setting, error) {
	args := m.Called(ctx, tenantID, appliesTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rates.Setting), args.Error(1)
}

func (m *MockSettingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]rates.Setting, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]rates.Setting), args.Error(1)
}

func (m *MockSettingRepository) Save(ctx context.Context, setting *rates.Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// =============================================================================
// Test fixtures
// =============================================================================

// testRepos bundles one mock of every repository behind a NoOpTransactionScope
type testRepos struct {
	orders      *MockOrderRepository
	items       *MockOrderItemDetailRepository
	settlements *MockSettlementRepository
	adjustments *MockAdjustmentRepository
	refunds     *MockRefundRepository
	entries     *MockJournalEntryRepository
	accounts    *MockAccountRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		orders:      new(MockOrderRepository),
		items:       new(MockOrderItemDetailRepository),
		settlements: new(MockSettlementRepository),
		adjustments: new(MockAdjustmentRepository),
		refunds:     new(MockRefundRepository),
		entries:     new(MockJournalEntryRepository),
		accounts:    new(MockAccountRepository),
	}
}

func (r *testRepos) scope() *NoOpTransactionScope {
	return &NoOpTransactionScope{
		OrderRepo:      r.orders,
		OrderItemRepo:  r.items,
		SettlementRepo: r.settlements,
		AdjustmentRepo: r.adjustments,
		RefundRepo:     r.refunds,
		JournalRepo:    r.entries,
		AccountRepo:    r.accounts,
	}
}

// expectPostingAccounts wires FindByCode for the five well-known accounts
// and returns their generated IDs keyed by code.
func (r *testRepos) expectPostingAccounts(tenantID uuid.UUID) map[string]uuid.UUID {
	codes := map[string]struct {
		name        string
		accountType journal.AccountType
	}{
		journal.AccountCodeCash:              {"Cash", journal.AccountTypeAsset},
		journal.AccountCodeVATPayable:        {"VAT Payable", journal.AccountTypeLiability},
		journal.AccountCodeMerchantPayable:   {"Merchant Payable", journal.AccountTypeLiability},
		journal.AccountCodeCourierPayable:    {"Courier Payable", journal.AccountTypeLiability},
		journal.AccountCodeCommissionRevenue: {"Commission Revenue", journal.AccountTypeRevenue},
	}

	ids := make(map[string]uuid.UUID, len(codes))
	for code, meta := range codes {
		account, _ := journal.NewChartOfAccount(tenantID, code, meta.name, meta.accountType)
		ids[code] = account.ID
		r.accounts.On("FindByCode", mock.Anything, tenantID, code).Return(account, nil)
	}
	return ids
}
