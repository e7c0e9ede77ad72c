package journal

import (
	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/shared"
)

// AccountType classifies a chart-of-accounts entry
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeContra    AccountType = "CONTRA"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeRevenue,
		AccountTypeExpense, AccountTypeContra:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Well-known account codes the engine posts against. Seeded as reference
// data; journal lines point into these.
const (
	AccountCodeCash              = "1000" // Cash / bank
	AccountCodeReceivable        = "1100" // Customer receivable
	AccountCodeVATPayable        = "2100" // VAT collected, owed to the tax authority
	AccountCodeMerchantPayable   = "2200" // Owed to merchants
	AccountCodeCourierPayable    = "2300" // Owed to couriers
	AccountCodeCommissionRevenue = "4100" // Platform commission earned
	AccountCodeDeliveryRevenue   = "4200" // Delivery fees collected on behalf of couriers
)

// ChartOfAccount is static reference data that journal lines point into.
// It is read-only to the reconciliation engine.
type ChartOfAccount struct {
	shared.TenantAggregateRoot

	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	ParentID *uuid.UUID  `json:"parent_id"`
}

// NewChartOfAccount creates a chart-of-accounts entry
func NewChartOfAccount(tenantID uuid.UUID, code, name string, accountType AccountType) (*ChartOfAccount, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid account type")
	}

	return &ChartOfAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                accountType,
	}, nil
}

// SetParent links this account under a parent account
func (a *ChartOfAccount) SetParent(parentID uuid.UUID) error {
	if parentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARENT", "Parent account ID cannot be empty")
	}
	a.ParentID = &parentID
	return nil
}
