package ordering

import (
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/rates"
	"github.com/talabia/backend/internal/domain/shared"
)

// CartLine is one captured cart position. Prices are tax-inclusive because
// that is what the customer sees and pays.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"` // inc-VAT
	Quantity  int64           `json:"quantity"`
}

// LineBreakdown is the fully decomposed financial view of one cart line.
// Every monetary field is rounded to 2 decimal places at this level, before
// any aggregation, so a printed receipt reconciles to the cent.
type LineBreakdown struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`

	UnitPriceIncVAT decimal.Decimal `json:"unit_price_inc_vat"`
	UnitPriceExVAT  decimal.Decimal `json:"unit_price_ex_vat"`
	SubtotalExVAT   decimal.Decimal `json:"subtotal_ex_vat"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	LineTotal       decimal.Decimal `json:"line_total"` // inc-VAT, equals the captured input

	CommissionExVAT decimal.Decimal `json:"commission_ex_vat"`
	CommissionVAT   decimal.Decimal `json:"commission_vat"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	MerchantPayout  decimal.Decimal `json:"merchant_payout"`
}

// OrderBreakdown is the order-level aggregate of the line decompositions
// plus the delivery fee decomposed as a single quantity-1 line.
type OrderBreakdown struct {
	Lines []LineBreakdown `json:"lines"`

	SubtotalExVAT  decimal.Decimal `json:"subtotal_ex_vat"`
	SubtotalIncVAT decimal.Decimal `json:"subtotal_inc_vat"`
	VATOnProducts  decimal.Decimal `json:"vat_on_products"`

	DeliveryFee      decimal.Decimal `json:"delivery_fee"` // inc-VAT
	DeliveryFeeExVAT decimal.Decimal `json:"delivery_fee_ex_vat"`
	VATOnDelivery    decimal.Decimal `json:"vat_on_delivery"`

	CommissionExVAT decimal.Decimal `json:"commission_ex_vat"`
	CommissionVAT   decimal.Decimal `json:"commission_vat"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	MerchantPayout  decimal.Decimal `json:"merchant_payout"`

	OrderTotal decimal.Decimal `json:"order_total"`

	// Rates used, snapshotted so the breakdown is self-describing
	VATPercent        decimal.Decimal `json:"vat_percent"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}

// Decompose turns a tax-inclusive cart into a full VAT/commission/payout
// decomposition using the supplied rates. It is pure: it never reads or
// writes persistent state, and it never fails for valid non-negative input.
//
// Since captured prices are tax-inclusive, the ex-VAT amount is
// inc / (1 + vat/100). Commission is charged on the ex-VAT base only, and
// the delivery fee carries no commission.
func Decompose(lines []CartLine, deliveryFee decimal.Decimal, r rates.Rates) (*OrderBreakdown, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if deliveryFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Delivery fee cannot be negative")
	}

	// Denominator is always >= 1 for non-negative rates, so the division
	// below cannot blow up.
	divisor := decimal.NewFromInt(1).Add(shared.Percent(r.VATPercent))
	commissionFrac := shared.Percent(r.CommissionPercent)
	vatFrac := shared.Percent(r.VATPercent)

	bd := &OrderBreakdown{
		Lines:             make([]LineBreakdown, 0, len(lines)),
		VATPercent:        r.VATPercent,
		CommissionPercent: r.CommissionPercent,
	}

	for _, line := range lines {
		if line.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Line quantity cannot be negative")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Line unit price cannot be negative")
		}

		lb := decomposeLine(line, divisor, commissionFrac, vatFrac)
		bd.Lines = append(bd.Lines, lb)

		bd.SubtotalExVAT = bd.SubtotalExVAT.Add(lb.SubtotalExVAT)
		bd.SubtotalIncVAT = bd.SubtotalIncVAT.Add(lb.LineTotal)
		bd.VATOnProducts = bd.VATOnProducts.Add(lb.VATAmount)
		bd.CommissionExVAT = bd.CommissionExVAT.Add(lb.CommissionExVAT)
		bd.CommissionVAT = bd.CommissionVAT.Add(lb.CommissionVAT)
		bd.CommissionTotal = bd.CommissionTotal.Add(lb.CommissionTotal)
		bd.MerchantPayout = bd.MerchantPayout.Add(lb.MerchantPayout)
	}

	// Delivery fee decomposes exactly like a quantity-1 line, minus the
	// commission split: the fee belongs to the courier, not the merchant.
	bd.DeliveryFee = shared.Round2(deliveryFee)
	bd.DeliveryFeeExVAT = shared.Round2(bd.DeliveryFee.Div(divisor))
	bd.VATOnDelivery = bd.DeliveryFee.Sub(bd.DeliveryFeeExVAT)

	bd.OrderTotal = shared.Round2(bd.SubtotalIncVAT.Add(bd.DeliveryFee))

	return bd, nil
}

// decomposeLine decomposes a single cart line. The VAT amount is derived as
// the remainder lineTotal - subtotalExVAT so that the inc == ex + vat
// identity holds exactly at 2 decimal places.
func decomposeLine(line CartLine, divisor, commissionFrac, vatFrac decimal.Decimal) LineBreakdown {
	qty := decimal.NewFromInt(line.Quantity)

	lineTotal := shared.Round2(line.UnitPrice.Mul(qty))
	subtotalExVAT := shared.Round2(lineTotal.Div(divisor))
	vatAmount := lineTotal.Sub(subtotalExVAT)

	commissionExVAT := shared.Round2(subtotalExVAT.Mul(commissionFrac))
	commissionVAT := shared.Round2(commissionExVAT.Mul(vatFrac))
	commissionTotal := commissionExVAT.Add(commissionVAT)
	merchantPayout := subtotalExVAT.Sub(commissionExVAT)

	return LineBreakdown{
		ProductID:       line.ProductID,
		Name:            line.Name,
		Quantity:        line.Quantity,
		UnitPriceIncVAT: shared.Round2(line.UnitPrice),
		UnitPriceExVAT:  shared.Round2(line.UnitPrice.Div(divisor)),
		SubtotalExVAT:   subtotalExVAT,
		VATAmount:       vatAmount,
		LineTotal:       lineTotal,
		CommissionExVAT: commissionExVAT,
		CommissionVAT:   commissionVAT,
		CommissionTotal: commissionTotal,
		MerchantPayout:  merchantPayout,
	}
}
