package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talabia/backend/internal/domain/shared"
)

// Test helpers
func createTestLineDetail(t *testing.T) *OrderItemDetail {
	t.Helper()
	bd := createTestBreakdown(t)
	detail, err := NewOrderItemDetail(uuid.New(), uuid.New(), bd.Lines[0], bd.VATPercent, bd.CommissionPercent)
	require.NoError(t, err)
	return detail
}

// ============================================
// OrderItemDetail Tests
// ============================================

func TestNewOrderItemDetail(t *testing.T) {
	detail := createTestLineDetail(t)

	assertDecimalEqual(t, "115.00", detail.LineTotal)
	assertDecimalEqual(t, "100.00", detail.SubtotalExVAT)
	assertDecimalEqual(t, "90.00", detail.MerchantPayout)
	assertDecimalEqual(t, "15", detail.VATPercent)
	assertDecimalEqual(t, "10", detail.CommissionPercent)
	assert.False(t, detail.IsRefunded)
	assert.True(t, detail.RefundedAmount.IsZero())
	assert.Equal(t, RefundStateUnrefunded, detail.RefundState())
}

func TestNewOrderItemDetail_RequiresOrder(t *testing.T) {
	bd := createTestBreakdown(t)
	_, err := NewOrderItemDetail(uuid.New(), uuid.Nil, bd.Lines[0], bd.VATPercent, bd.CommissionPercent)
	assert.Error(t, err)
}

func TestOrderItemDetail_RecordRefund_Partial(t *testing.T) {
	detail := createTestLineDetail(t)

	require.NoError(t, detail.RecordRefund(d("40.00")))

	assertDecimalEqual(t, "40.00", detail.RefundedAmount)
	assertDecimalEqual(t, "75.00", detail.RemainingRefundable())
	assert.False(t, detail.IsRefunded)
	assert.Nil(t, detail.RefundedAt)
	assert.Equal(t, RefundStatePartial, detail.RefundState())
}

func TestOrderItemDetail_RecordRefund_CumulativeToFull(t *testing.T) {
	detail := createTestLineDetail(t)

	require.NoError(t, detail.RecordRefund(d("40.00")))
	require.NoError(t, detail.RecordRefund(d("75.00")))

	assertDecimalEqual(t, "115.00", detail.RefundedAmount)
	assert.True(t, detail.IsRefunded)
	assert.NotNil(t, detail.RefundedAt)
	assert.True(t, detail.RemainingRefundable().IsZero())
	assert.Equal(t, RefundStateFull, detail.RefundState())
}

func TestOrderItemDetail_RecordRefund_OverRefund(t *testing.T) {
	detail := createTestLineDetail(t)

	require.NoError(t, detail.RecordRefund(d("100.00")))

	err := detail.RecordRefund(d("15.01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrOverRefund)
	assertDecimalEqual(t, "100.00", detail.RefundedAmount, "rejection leaves state untouched")
}

func TestOrderItemDetail_RecordRefund_AlreadyRefunded(t *testing.T) {
	detail := createTestLineDetail(t)
	require.NoError(t, detail.RecordRefund(d("115.00")))

	err := detail.RecordRefund(d("0.01"))
	assert.ErrorIs(t, err, shared.ErrAlreadyRefunded)
}

func TestOrderItemDetail_RecordRefund_RejectsNonPositive(t *testing.T) {
	detail := createTestLineDetail(t)

	assert.ErrorIs(t, detail.RecordRefund(d("0")), shared.ErrInvalidAmount)
	assert.ErrorIs(t, detail.RecordRefund(d("-5.00")), shared.ErrInvalidAmount)
}
