package refund

import (
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/shared"
)

// Reversal is the exact decomposition of a refunded inc-VAT amount into
// the VAT, commission and payout figures being given back.
type Reversal struct {
	AmountIncVAT    decimal.Decimal `json:"amount_inc_vat"`
	AmountExVAT     decimal.Decimal `json:"amount_ex_vat"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	CommissionExVAT decimal.Decimal `json:"commission_ex_vat"`
	CommissionVAT   decimal.Decimal `json:"commission_vat"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	MerchantPayout  decimal.Decimal `json:"merchant_payout"`
}

// ComputeFullReversal reverses a line's original figures exactly. No
// re-derivation happens: the audit trail figures come back verbatim.
func ComputeFullReversal(line *ordering.OrderItemDetail) Reversal {
	return Reversal{
		AmountIncVAT:    line.LineTotal,
		AmountExVAT:     line.SubtotalExVAT,
		VATAmount:       line.VATAmount,
		CommissionExVAT: line.CommissionExVAT,
		CommissionVAT:   line.CommissionVAT,
		CommissionTotal: line.CommissionTotal,
		MerchantPayout:  line.MerchantPayout,
	}
}

// ComputePartialReversal decomposes a refunded inc-VAT amount using the
// rates snapshotted on the original line. An operator changing the live
// VAT rate between order date and refund date must not alter historical
// refund math, so current configuration is never consulted here.
func ComputePartialReversal(line *ordering.OrderItemDetail, amountIncVAT decimal.Decimal) (Reversal, error) {
	if !amountIncVAT.IsPositive() {
		return Reversal{}, shared.ErrInvalidAmount
	}
	if amountIncVAT.GreaterThan(line.RemainingRefundable()) {
		return Reversal{}, shared.ErrOverRefund
	}

	divisor := decimal.NewFromInt(1).Add(shared.Percent(line.VATPercent))

	amount := shared.Round2(amountIncVAT)
	exVAT := shared.Round2(amount.Div(divisor))
	vat := amount.Sub(exVAT)

	commissionExVAT := shared.Round2(exVAT.Mul(shared.Percent(line.CommissionPercent)))
	commissionVAT := shared.Round2(commissionExVAT.Mul(shared.Percent(line.VATPercent)))

	return Reversal{
		AmountIncVAT:    amount,
		AmountExVAT:     exVAT,
		VATAmount:       vat,
		CommissionExVAT: commissionExVAT,
		CommissionVAT:   commissionVAT,
		CommissionTotal: commissionExVAT.Add(commissionVAT),
		MerchantPayout:  exVAT.Sub(commissionExVAT),
	}, nil
}
