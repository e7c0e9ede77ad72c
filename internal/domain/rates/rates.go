package rates

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// Default percentages applied when no active rate setting exists for a tenant.
// Checkout must never fail because configuration is momentarily missing; the
// engine falls back to these documented values and logs the condition.
var (
	DefaultVATPercent        = decimal.NewFromInt(15)
	DefaultCommissionPercent = decimal.NewFromInt(10)
)

// Rates is the pair of percentages the decomposition calculator needs.
// The values are snapshotted onto the order at creation time; later changes
// to configuration never affect historical orders.
type Rates struct {
	VATPercent        decimal.Decimal `json:"vat_percent"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}

// DefaultRates returns the documented fallback rates.
func DefaultRates() Rates {
	return Rates{
		VATPercent:        DefaultVATPercent,
		CommissionPercent: DefaultCommissionPercent,
	}
}

// Validate rejects negative percentages. A negative rate is a configuration
// error, not a computable input.
func (r Rates) Validate() error {
	if r.VATPercent.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "VAT percentage cannot be negative")
	}
	if r.CommissionPercent.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Commission percentage cannot be negative")
	}
	return nil
}

// Provider supplies the active VAT and commission percentages at the moment
// an order is placed. Implementations must treat this as a pure lookup with
// an explicit default-fallback policy; the engine depends only on this
// interface so it can be tested with fixed rates.
type Provider interface {
	CurrentRates(ctx context.Context, tenantID uuid.UUID) (Rates, error)
}

// FixedProvider is a Provider that always returns the same rates.
// Used in tests and as the fallback of last resort.
type FixedProvider struct {
	Rates Rates
}

// CurrentRates returns the fixed rates.
func (p FixedProvider) CurrentRates(_ context.Context, _ uuid.UUID) (Rates, error) {
	return p.Rates, nil
}
