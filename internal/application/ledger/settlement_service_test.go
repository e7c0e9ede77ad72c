package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/rates"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Test helpers
func deliveredOrder(t *testing.T, tenantID, storeID uuid.UUID, unitPrice string) *ordering.Order {
	t.Helper()
	bd, err := ordering.Decompose(
		[]ordering.CartLine{{ProductID: "p1", Name: "Meal", UnitPrice: d(unitPrice), Quantity: 1}},
		decimal.Zero, rates.DefaultRates())
	require.NoError(t, err)

	order, err := ordering.NewOrder(tenantID, "ORD-"+uuid.NewString()[:8], storeID, uuid.New(), bd)
	require.NoError(t, err)
	for _, status := range []ordering.OrderStatus{
		ordering.OrderStatusAccepted, ordering.OrderStatusPreparing, ordering.OrderStatusReady,
		ordering.OrderStatusPickedUp, ordering.OrderStatusDelivered,
	} {
		require.NoError(t, order.TransitionTo(status))
	}
	return order
}

func expectMerchantDue(repos *testRepos, tenantID, storeID uuid.UUID, gross, settled, pendingAdj string) {
	repos.orders.On("SumDeliveredMerchantPayout", mock.Anything, tenantID, storeID).Return(d(gross), nil)
	repos.settlements.On("SumCompletedForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return(d(settled), nil)
	repos.adjustments.On("SumPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return(d(pendingAdj), nil)
}

// ============================================
// OutstandingDue Tests
// ============================================

func TestSettlementService_OutstandingDue(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()
	expectMerchantDue(repos, tenantID, storeID, "540.00", "200.00", "36.00")

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	due, err := svc.OutstandingDue(context.Background(), DueRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
	})
	require.NoError(t, err)

	assert.True(t, d("540.00").Equal(due.GrossDelivered))
	assert.True(t, d("200.00").Equal(due.SettledTotal))
	assert.True(t, d("340.00").Equal(due.OutstandingDue))
	assert.True(t, d("36.00").Equal(due.PendingAdjustments))
}

func TestSettlementService_OutstandingDue_Courier(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	courierID := uuid.New()
	repos.orders.On("SumDeliveredDeliveryFees", mock.Anything, tenantID, courierID).Return(d("80.00"), nil)
	repos.settlements.On("SumCompletedForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeCourier, courierID).Return(d("0"), nil)
	repos.adjustments.On("SumPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeCourier, courierID).Return(d("0"), nil)

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	due, err := svc.OutstandingDue(context.Background(), DueRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeCourier,
		RecipientID:   courierID,
	})
	require.NoError(t, err)
	assert.True(t, d("80.00").Equal(due.OutstandingDue))
}

func TestSettlementService_OutstandingDue_NothingDelivered(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()
	expectMerchantDue(repos, tenantID, storeID, "0", "0", "0")

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	due, err := svc.OutstandingDue(context.Background(), DueRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
	})
	require.NoError(t, err)
	assert.True(t, due.OutstandingDue.IsZero())
}

func TestSettlementService_OutstandingDue_Validation(t *testing.T) {
	svc := NewSettlementService(newTestRepos().scope(), zap.NewNop())

	_, err := svc.OutstandingDue(context.Background(), DueRequest{
		TenantID:      uuid.New(),
		RecipientType: settlement.RecipientType("BOGUS"),
		RecipientID:   uuid.New(),
	})
	assert.Error(t, err)

	_, err = svc.OutstandingDue(context.Background(), DueRequest{
		TenantID:      uuid.New(),
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   uuid.Nil,
	})
	assert.Error(t, err)
}

// ============================================
// CreateSettlement Tests
// ============================================

func TestSettlementService_CreateSettlement(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()

	o1 := deliveredOrder(t, tenantID, storeID, "115.00") // payout 90.00
	o2 := deliveredOrder(t, tenantID, storeID, "230.00") // payout 180.00

	expectMerchantDue(repos, tenantID, storeID, "270.00", "0", "0")
	repos.orders.On("FindDeliveredUnsettledByStore", mock.Anything, tenantID, storeID).
		Return([]ordering.Order{*o1, *o2}, nil)
	repos.settlements.On("GenerateSettlementNumber", mock.Anything, tenantID).Return("ST-2026-08-0001", nil)
	repos.expectPostingAccounts(tenantID)
	repos.entries.On("GenerateEntryNumber", mock.Anything, tenantID).Return("JE-2026-08-0005", nil)

	var entry *journal.Entry
	repos.entries.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).
		Run(func(args mock.Arguments) { entry = args.Get(1).(*journal.Entry) }).Return(nil)
	repos.settlements.On("Save", mock.Anything, mock.AnythingOfType("*settlement.Settlement")).Return(nil)
	repos.adjustments.On("FindPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return([]settlement.Adjustment{}, nil)

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	stl, err := svc.CreateSettlement(context.Background(), CreateSettlementRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
		Amount:        d("270.00"),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	assert.True(t, stl.IsCompleted())
	assert.Equal(t, "ST-2026-08-0001", stl.SettlementNumber)
	require.Len(t, stl.Items, 2, "both orders fully covered")
	assert.True(t, d("90.00").Equal(stl.Items[0].Amount))
	assert.True(t, d("180.00").Equal(stl.Items[1].Amount))

	require.NotNil(t, entry)
	assert.Equal(t, journal.ReferenceTypeSettlement, entry.ReferenceType)
	assert.True(t, entry.IsBalanced())
	assert.True(t, d("270.00").Equal(entry.TotalDebit))
	require.NotNil(t, stl.JournalEntryID)
	assert.Equal(t, entry.ID, *stl.JournalEntryID)
}

func TestSettlementService_CreateSettlement_PartialLeavesTailUnallocated(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()

	o1 := deliveredOrder(t, tenantID, storeID, "115.00") // payout 90.00
	o2 := deliveredOrder(t, tenantID, storeID, "230.00") // payout 180.00

	expectMerchantDue(repos, tenantID, storeID, "270.00", "0", "0")
	repos.orders.On("FindDeliveredUnsettledByStore", mock.Anything, tenantID, storeID).
		Return([]ordering.Order{*o1, *o2}, nil)
	repos.settlements.On("GenerateSettlementNumber", mock.Anything, tenantID).Return("ST-2026-08-0002", nil)
	repos.expectPostingAccounts(tenantID)
	repos.entries.On("GenerateEntryNumber", mock.Anything, tenantID).Return("JE-2026-08-0006", nil)
	repos.entries.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.settlements.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.adjustments.On("FindPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return([]settlement.Adjustment{}, nil)

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	stl, err := svc.CreateSettlement(context.Background(), CreateSettlementRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
		Amount:        d("100.00"),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	// 100.00 covers the oldest order (90.00) in full; the 10.00 residual
	// only partially covers the next order, so it stays unallocated.
	require.Len(t, stl.Items, 1)
	assert.Equal(t, o1.ID, stl.Items[0].OrderID)
	assert.True(t, d("90.00").Equal(stl.Items[0].Amount))
}

func TestSettlementService_CreateSettlement_Overpayment(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()
	expectMerchantDue(repos, tenantID, storeID, "270.00", "200.00", "0")

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	_, err := svc.CreateSettlement(context.Background(), CreateSettlementRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
		Amount:        d("70.01"),
		PaymentMethod: "bank_transfer",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OVERPAYMENT", domainErr.Code)
	repos.settlements.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSettlementService_CreateSettlement_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewSettlementService(newTestRepos().scope(), zap.NewNop())

	_, err := svc.CreateSettlement(context.Background(), CreateSettlementRequest{
		TenantID:      uuid.New(),
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   uuid.New(),
		Amount:        decimal.Zero,
		PaymentMethod: "bank_transfer",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)
}

// settledTrackingRepo overlays the settlement mock with a running completed
// total so a due computation sees the settlements saved before it.
type settledTrackingRepo struct {
	*MockSettlementRepository
	mu      sync.Mutex
	settled decimal.Decimal
}

func (r *settledTrackingRepo) SumCompletedForRecipient(_ context.Context, _ uuid.UUID, _ settlement.RecipientType, _ uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settled, nil
}

func (r *settledTrackingRepo) Save(_ context.Context, stl *settlement.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled = r.settled.Add(stl.TotalAmount)
	return nil
}

// txRecordingScope counts which transaction mode each write path asked for.
type txRecordingScope struct {
	*NoOpTransactionScope
	serializable int32
	plain        int32
}

func (s *txRecordingScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	atomic.AddInt32(&s.plain, 1)
	return s.NoOpTransactionScope.Execute(ctx, fn)
}

func (s *txRecordingScope) ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	atomic.AddInt32(&s.serializable, 1)
	return s.NoOpTransactionScope.ExecuteSerializable(ctx, fn)
}

func TestSettlementService_CreateSettlement_ConcurrentRequestsCannotOverpay(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()

	o := deliveredOrder(t, tenantID, storeID, "230.00") // payout 180.00

	repos.orders.On("SumDeliveredMerchantPayout", mock.Anything, tenantID, storeID).Return(d("180.00"), nil)
	repos.adjustments.On("SumPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return(d("0"), nil)
	repos.orders.On("FindDeliveredUnsettledByStore", mock.Anything, tenantID, storeID).
		Return([]ordering.Order{*o}, nil)
	repos.settlements.On("GenerateSettlementNumber", mock.Anything, tenantID).Return("ST-2026-08-0009", nil)
	repos.expectPostingAccounts(tenantID)
	repos.entries.On("GenerateEntryNumber", mock.Anything, tenantID).Return("JE-2026-08-0009", nil)
	repos.entries.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.adjustments.On("FindPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return([]settlement.Adjustment{}, nil)

	scope := &txRecordingScope{NoOpTransactionScope: repos.scope()}
	scope.SettlementRepo = &settledTrackingRepo{MockSettlementRepository: repos.settlements}

	svc := NewSettlementService(scope, zap.NewNop())
	req := CreateSettlementRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
		Amount:        d("180.00"),
		PaymentMethod: "bank_transfer",
	}

	// Two simultaneous requests each asking for the full due: the keyed
	// mutex serializes them and the second one must see a zero due.
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateSettlement(context.Background(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, overpayments int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "OVERPAYMENT", domainErr.Code)
		overpayments++
	}
	assert.Equal(t, 1, successes, "exactly one request may clear the due")
	assert.Equal(t, 1, overpayments, "the loser must be rejected, not double-paid")

	// Both attempts ran under the serializable write path.
	assert.Equal(t, int32(2), atomic.LoadInt32(&scope.serializable))
	assert.Equal(t, int32(0), atomic.LoadInt32(&scope.plain))
}

func TestSettlementService_CreateSettlement_NetsPendingAdjustments(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	storeID := uuid.New()

	adj, err := settlement.NewAdjustment(tenantID, settlement.RecipientTypeMerchant,
		storeID, uuid.New(), uuid.New(), d("36.00"))
	require.NoError(t, err)

	expectMerchantDue(repos, tenantID, storeID, "100.00", "0", "36.00")
	repos.orders.On("FindDeliveredUnsettledByStore", mock.Anything, tenantID, storeID).
		Return([]ordering.Order{}, nil)
	repos.settlements.On("GenerateSettlementNumber", mock.Anything, tenantID).Return("ST-2026-08-0003", nil)
	repos.expectPostingAccounts(tenantID)
	repos.entries.On("GenerateEntryNumber", mock.Anything, tenantID).Return("JE-2026-08-0007", nil)
	repos.entries.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.settlements.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.adjustments.On("FindPendingForRecipient", mock.Anything, tenantID,
		settlement.RecipientTypeMerchant, storeID).Return([]settlement.Adjustment{*adj}, nil)
	repos.adjustments.On("Save", mock.Anything, mock.AnythingOfType("*settlement.Adjustment")).Return(nil)

	svc := NewSettlementService(repos.scope(), zap.NewNop())
	stl, err := svc.CreateSettlement(context.Background(), CreateSettlementRequest{
		TenantID:      tenantID,
		RecipientType: settlement.RecipientTypeMerchant,
		RecipientID:   storeID,
		Amount:        d("100.00"),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	require.NotNil(t, stl)
	repos.adjustments.AssertCalled(t, "Save", mock.Anything, mock.MatchedBy(func(a *settlement.Adjustment) bool {
		return a.Status == settlement.AdjustmentStatusNetted &&
			a.NettedSettlementID != nil && *a.NettedSettlementID == stl.ID
	}))
}
