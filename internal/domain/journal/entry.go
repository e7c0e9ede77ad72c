package journal

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// ReferenceType names the money-moving event a journal entry documents
type ReferenceType string

const (
	// ReferenceTypeOrder is an order payment capture
	ReferenceTypeOrder ReferenceType = "ORDER"
	// ReferenceTypeSettlement is a payout clearing a recipient's due
	ReferenceTypeSettlement ReferenceType = "SETTLEMENT"
	// ReferenceTypeRefund is the reversal of (part of) an order capture
	ReferenceTypeRefund ReferenceType = "REFUND"
)

// IsValid checks if the reference type is valid
func (t ReferenceType) IsValid() bool {
	switch t {
	case ReferenceTypeOrder, ReferenceTypeSettlement, ReferenceTypeRefund:
		return true
	}
	return false
}

// String returns the string representation of ReferenceType
func (t ReferenceType) String() string {
	return string(t)
}

// Line is one debit or credit against a chart-of-accounts entry. Exactly
// one of Debit/Credit is positive; the other is zero.
type Line struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// DebitLine builds a debit line against an account
func DebitLine(accountID uuid.UUID, amount decimal.Decimal, memo string) Line {
	return Line{ID: uuid.New(), AccountID: accountID, Debit: amount, Credit: decimal.Zero, Memo: memo}
}

// CreditLine builds a credit line against an account
func CreditLine(accountID uuid.UUID, amount decimal.Decimal, memo string) Line {
	return Line{ID: uuid.New(), AccountID: accountID, Debit: decimal.Zero, Credit: amount, Memo: memo}
}

// validate enforces the per-line shape: a non-nil account and exactly one
// positive side.
func (l Line) validate() error {
	if l.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Journal line account ID cannot be empty")
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Journal line amounts cannot be negative")
	}
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if debitSet == creditSet {
		return shared.NewDomainError("INVALID_LINE", "Journal line must have exactly one of debit or credit")
	}
	return nil
}

// Entry is a balanced double-entry accounting record: the terminal,
// append-only documentation of one money movement. Entries are never
// mutated or deleted after creation.
type Entry struct {
	shared.TenantAggregateRoot

	EntryNumber   string        `json:"entry_number"`
	ReferenceType ReferenceType `json:"reference_type"`
	ReferenceID   uuid.UUID     `json:"reference_id"`
	Description   string        `json:"description"`

	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`

	Lines []Line `json:"lines"`
}

// NewEntry builds a journal entry and enforces the balance invariant:
// the 2-decimal debit and credit totals must be equal, or the entry is
// rejected with UNBALANCED_ENTRY. An unbalanced entry is a logic bug in
// the caller, never an expected runtime condition.
func NewEntry(
	tenantID uuid.UUID,
	entryNumber string,
	referenceType ReferenceType,
	referenceID uuid.UUID,
	description string,
	lines []Line,
) (*Entry, error) {
	if entryNumber == "" {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot be empty")
	}
	if !referenceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid journal reference type")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}
	if len(lines) < 2 {
		return nil, shared.NewDomainError("INVALID_LINES", "Journal entry needs at least two lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if err := line.validate(); err != nil {
			return nil, err
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	totalDebit = shared.Round2(totalDebit)
	totalCredit = shared.Round2(totalCredit)
	if !totalDebit.Equal(totalCredit) {
		return nil, shared.NewDomainError("UNBALANCED_ENTRY",
			fmt.Sprintf("Journal entry is unbalanced: debit %s != credit %s", totalDebit, totalCredit))
	}

	return &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryNumber:         entryNumber,
		ReferenceType:       referenceType,
		ReferenceID:         referenceID,
		Description:         description,
		TotalDebit:          totalDebit,
		TotalCredit:         totalCredit,
		Lines:               lines,
	}, nil
}

// IsBalanced re-checks the balance invariant on a loaded entry
func (e *Entry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}
