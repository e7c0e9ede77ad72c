package models

import (
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/rates"
)

// RateSettingModel is the persistence model for configured percentage rates.
type RateSettingModel struct {
	TenantAggregateModel
	Name      string          `gorm:"type:varchar(100);not null"`
	AppliesTo rates.AppliesTo `gorm:"type:varchar(30);not null;index:idx_rate_tenant_applies,priority:2"`
	Percent   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Active    bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RateSettingModel) TableName() string {
	return "rate_settings"
}

// ToDomain converts the persistence model to a domain Setting entity.
func (m *RateSettingModel) ToDomain() *rates.Setting {
	s := &rates.Setting{
		Name:      m.Name,
		AppliesTo: m.AppliesTo,
		Percent:   m.Percent,
		Active:    m.Active,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Setting entity.
func (m *RateSettingModel) FromDomain(s *rates.Setting) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.AppliesTo = s.AppliesTo
	m.Percent = s.Percent
	m.Active = s.Active
}

// RateSettingModelFromDomain creates a new persistence model from a domain Setting.
func RateSettingModelFromDomain(s *rates.Setting) *RateSettingModel {
	m := &RateSettingModel{}
	m.FromDomain(s)
	return m
}
