package journal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talabia/backend/internal/domain/shared"
)

// Test helpers
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balancedTestLines() []Line {
	cash := uuid.New()
	payable := uuid.New()
	revenue := uuid.New()
	vat := uuid.New()
	return []Line{
		DebitLine(cash, d("126.50"), "order capture"),
		CreditLine(payable, d("100.00"), "merchant payout"),
		CreditLine(revenue, d("10.00"), "commission"),
		CreditLine(vat, d("16.50"), "VAT"),
	}
}

// ============================================
// Line Tests
// ============================================

func TestLine_Validate(t *testing.T) {
	account := uuid.New()

	tests := []struct {
		name    string
		line    Line
		wantErr bool
	}{
		{"valid debit", DebitLine(account, d("10.00"), ""), false},
		{"valid credit", CreditLine(account, d("10.00"), ""), false},
		{"nil account", DebitLine(uuid.Nil, d("10.00"), ""), true},
		{"both sides zero", Line{ID: uuid.New(), AccountID: account}, true},
		{"both sides set", Line{ID: uuid.New(), AccountID: account, Debit: d("1"), Credit: d("1")}, true},
		{"negative debit", Line{ID: uuid.New(), AccountID: account, Debit: d("-1")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ============================================
// Entry Tests
// ============================================

func TestNewEntry(t *testing.T) {
	entry, err := NewEntry(uuid.New(), "JE-2026-08-0001", ReferenceTypeOrder, uuid.New(),
		"Payment capture", balancedTestLines())
	require.NoError(t, err)

	assertDecimal(t, "126.50", entry.TotalDebit)
	assertDecimal(t, "126.50", entry.TotalCredit)
	assert.True(t, entry.IsBalanced())
	assert.Len(t, entry.Lines, 4)
}

func TestNewEntry_Unbalanced(t *testing.T) {
	lines := []Line{
		DebitLine(uuid.New(), d("100.00"), ""),
		CreditLine(uuid.New(), d("99.99"), ""),
	}

	_, err := NewEntry(uuid.New(), "JE-2026-08-0002", ReferenceTypeOrder, uuid.New(), "", lines)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNBALANCED_ENTRY", domainErr.Code)
}

func TestNewEntry_BalanceCheckedAtTwoDecimals(t *testing.T) {
	// Sub-cent dust must not fail the balance check: totals are compared
	// after rounding to 2 decimal places.
	lines := []Line{
		DebitLine(uuid.New(), d("100.001"), ""),
		CreditLine(uuid.New(), d("100.0009"), ""),
	}

	entry, err := NewEntry(uuid.New(), "JE-2026-08-0003", ReferenceTypeOrder, uuid.New(), "", lines)
	require.NoError(t, err)
	assert.True(t, entry.IsBalanced())
}

func TestNewEntry_Validation(t *testing.T) {
	tenantID := uuid.New()
	refID := uuid.New()
	lines := balancedTestLines()

	tests := []struct {
		name        string
		entryNumber string
		refType     ReferenceType
		refID       uuid.UUID
		lines       []Line
	}{
		{"empty entry number", "", ReferenceTypeOrder, refID, lines},
		{"invalid reference type", "JE-1", ReferenceType("BOGUS"), refID, lines},
		{"nil reference", "JE-1", ReferenceTypeOrder, uuid.Nil, lines},
		{"single line", "JE-1", ReferenceTypeOrder, refID, lines[:1]},
		{"no lines", "JE-1", ReferenceTypeOrder, refID, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(tenantID, tt.entryNumber, tt.refType, tt.refID, "", tt.lines)
			assert.Error(t, err)
		})
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
