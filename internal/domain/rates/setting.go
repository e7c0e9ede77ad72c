package rates

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/shared"
)

// AppliesTo discriminates what a configured rate applies to
type AppliesTo string

const (
	// AppliesToPlatform is the platform commission charged on merchant sales
	AppliesToPlatform AppliesTo = "platform"
	// AppliesToTax is the VAT rate applied to products and delivery
	AppliesToTax AppliesTo = "tax"
	// AppliesToPaymentGateway is a gateway processing fee rate
	AppliesToPaymentGateway AppliesTo = "payment_gateway"
	// AppliesToCustom is a tenant-defined fee type
	AppliesToCustom AppliesTo = "custom"
)

// IsValid checks if the discriminator is a valid AppliesTo value
func (a AppliesTo) IsValid() bool {
	switch a {
	case AppliesToPlatform, AppliesToTax, AppliesToPaymentGateway, AppliesToCustom:
		return true
	}
	return false
}

// String returns the string representation of AppliesTo
func (a AppliesTo) String() string {
	return string(a)
}

// Setting is a named percentage rate keyed by an applies_to discriminator.
// Settings are mutable configuration and read-only to the reconciliation
// engine, which snapshots the values it uses rather than re-reading them.
type Setting struct {
	shared.TenantAggregateRoot

	Name      string          `json:"name"`
	AppliesTo AppliesTo       `json:"applies_to"`
	Percent   decimal.Decimal `json:"percent"`
	Active    bool            `json:"active"`
}

// NewSetting creates a new rate setting
func NewSetting(tenantID uuid.UUID, name string, appliesTo AppliesTo, percent decimal.Decimal) (*Setting, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Rate setting name cannot be empty")
	}
	if !appliesTo.IsValid() {
		return nil, shared.NewDomainError("INVALID_APPLIES_TO", "Invalid applies_to discriminator")
	}
	if percent.IsNegative() {
		return nil, shared.ErrInvalidRate
	}

	return &Setting{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		AppliesTo:           appliesTo,
		Percent:             percent,
		Active:              true,
	}, nil
}

// Deactivate marks the setting inactive so lookups skip it
func (s *Setting) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
}

// UpdatePercent changes the configured percentage
func (s *Setting) UpdatePercent(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return shared.ErrInvalidRate
	}
	s.Percent = percent
	s.UpdatedAt = time.Now()
	return nil
}
