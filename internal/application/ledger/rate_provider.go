package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/rates"
	"go.uber.org/zap"
)

// SettingsRateProvider resolves the active VAT and commission percentages
// from persisted rate settings, falling back to the documented defaults
// when configuration is missing. Checkout must never fail because a rate
// row is momentarily absent: the provider logs the condition and proceeds.
type SettingsRateProvider struct {
	settings rates.SettingRepository
	logger   *zap.Logger
}

// NewSettingsRateProvider creates a new SettingsRateProvider
func NewSettingsRateProvider(settings rates.SettingRepository, logger *zap.Logger) *SettingsRateProvider {
	return &SettingsRateProvider{
		settings: settings,
		logger:   logger,
	}
}

// CurrentRates returns the active rates for a tenant. Missing or unreadable
// configuration yields the default rate for that component, logged as a
// warning; the checkout flow proceeds.
func (p *SettingsRateProvider) CurrentRates(ctx context.Context, tenantID uuid.UUID) (rates.Rates, error) {
	r := rates.DefaultRates()

	tax, err := p.settings.FindActiveByAppliesTo(ctx, tenantID, rates.AppliesToTax)
	switch {
	case err != nil:
		p.logger.Warn("tax rate lookup failed, using default",
			zap.String("tenant_id", tenantID.String()),
			zap.String("default_percent", r.VATPercent.String()),
			zap.Error(err))
	case tax == nil:
		p.logger.Warn("no active tax rate configured, using default",
			zap.String("tenant_id", tenantID.String()),
			zap.String("default_percent", r.VATPercent.String()))
	default:
		r.VATPercent = tax.Percent
	}

	commission, err := p.settings.FindActiveByAppliesTo(ctx, tenantID, rates.AppliesToPlatform)
	switch {
	case err != nil:
		p.logger.Warn("commission rate lookup failed, using default",
			zap.String("tenant_id", tenantID.String()),
			zap.String("default_percent", r.CommissionPercent.String()),
			zap.Error(err))
	case commission == nil:
		p.logger.Warn("no active commission rate configured, using default",
			zap.String("tenant_id", tenantID.String()),
			zap.String("default_percent", r.CommissionPercent.String()))
	default:
		r.CommissionPercent = commission.Percent
	}

	if err := r.Validate(); err != nil {
		// A negative configured rate is a configuration error; surface it
		// instead of producing a nonsensical decomposition.
		return rates.Rates{}, err
	}

	return r, nil
}

// Ensure SettingsRateProvider implements rates.Provider
var _ rates.Provider = (*SettingsRateProvider)(nil)
