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

// postingAccounts holds the resolved chart-of-accounts IDs the engine
// posts against for one tenant.
type postingAccounts struct {
	cash              uuid.UUID
	vatPayable        uuid.UUID
	merchantPayable   uuid.UUID
	courierPayable    uuid.UUID
	commissionRevenue uuid.UUID
}

// resolvePostingAccounts looks up the well-known accounts for a tenant.
// A missing account is a setup error, not a runtime condition.
func resolvePostingAccounts(ctx context.Context, accounts journal.AccountRepository, tenantID uuid.UUID) (*postingAccounts, error) {
	lookup := func(code string) (uuid.UUID, error) {
		acc, err := accounts.FindByCode(ctx, tenantID, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return uuid.Nil, shared.NewDomainError("ACCOUNT_NOT_FOUND",
					fmt.Sprintf("Chart of accounts is missing account %s", code))
			}
			return uuid.Nil, fmt.Errorf("failed to look up account %s: %w", code, err)
		}
		return acc.ID, nil
	}

	pa := &postingAccounts{}
	var err error
	if pa.cash, err = lookup(journal.AccountCodeCash); err != nil {
		return nil, err
	}
	if pa.vatPayable, err = lookup(journal.AccountCodeVATPayable); err != nil {
		return nil, err
	}
	if pa.merchantPayable, err = lookup(journal.AccountCodeMerchantPayable); err != nil {
		return nil, err
	}
	if pa.courierPayable, err = lookup(journal.AccountCodeCourierPayable); err != nil {
		return nil, err
	}
	if pa.commissionRevenue, err = lookup(journal.AccountCodeCommissionRevenue); err != nil {
		return nil, err
	}
	return pa, nil
}

// orderCaptureLines builds the balanced line set documenting an order
// payment capture:
//
//	debit  cash                order total
//	credit merchant payable    merchant payout
//	credit commission revenue  commission ex-VAT
//	credit VAT payable         VAT on products + VAT on delivery
//	credit courier payable     delivery fee ex-VAT
//
// The credits sum to the order total by construction of the decomposition.
// Zero-amount legs (a zero-rate tenant has no VAT or commission to post)
// are dropped; a journal line must carry money.
func orderCaptureLines(pa *postingAccounts, o *ordering.Order) []journal.Line {
	return nonZeroLines([]journal.Line{
		journal.DebitLine(pa.cash, o.OrderTotal, "order payment capture"),
		journal.CreditLine(pa.merchantPayable, o.MerchantPayout, "merchant payout due"),
		journal.CreditLine(pa.commissionRevenue, o.CommissionExVAT, "platform commission"),
		journal.CreditLine(pa.vatPayable, o.VATOnProducts.Add(o.VATOnDelivery), "VAT collected"),
		journal.CreditLine(pa.courierPayable, o.DeliveryFeeExVAT, "delivery fee due"),
	})
}

// newOrderCaptureEntry posts the capture entry for a freshly created order
func newOrderCaptureEntry(tenantID uuid.UUID, entryNumber string, o *ordering.Order, pa *postingAccounts) (*journal.Entry, error) {
	return journal.NewEntry(tenantID, entryNumber, journal.ReferenceTypeOrder, o.ID,
		fmt.Sprintf("Payment capture for order %s", o.OrderNumber),
		orderCaptureLines(pa, o))
}

// settlementPayoutLines builds the line set for a settlement payout:
// debit the recipient's payable account, credit cash.
func settlementPayoutLines(pa *postingAccounts, s *settlement.Settlement) []journal.Line {
	payable := pa.merchantPayable
	if s.RecipientType == settlement.RecipientTypeCourier {
		payable = pa.courierPayable
	}
	return []journal.Line{
		journal.DebitLine(payable, s.TotalAmount, "settlement payout"),
		journal.CreditLine(pa.cash, s.TotalAmount, "settlement payout"),
	}
}

// refundReversalLines builds the mirror image of the capture entry scaled
// to the refunded portion of one line: the payable, commission and VAT
// credits come back as debits and cash goes out.
// Zero-amount legs are dropped the same way as in the capture: a small
// partial refund can round the commission or VAT component to 0.00.
func refundReversalLines(pa *postingAccounts, rev refund.Reversal) []journal.Line {
	return nonZeroLines([]journal.Line{
		journal.DebitLine(pa.merchantPayable, rev.MerchantPayout, "refund reversal"),
		journal.DebitLine(pa.commissionRevenue, rev.CommissionExVAT, "commission reversal"),
		journal.DebitLine(pa.vatPayable, rev.VATAmount, "VAT reversal"),
		journal.CreditLine(pa.cash, rev.AmountIncVAT, "refund paid out"),
	})
}

// nonZeroLines keeps only the lines that move money
func nonZeroLines(lines []journal.Line) []journal.Line {
	kept := make([]journal.Line, 0, len(lines))
	for _, line := range lines {
		if line.Debit.IsPositive() || line.Credit.IsPositive() {
			kept = append(kept, line)
		}
	}
	return kept
}
