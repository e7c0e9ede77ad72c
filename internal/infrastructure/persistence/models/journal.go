package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/journal"
)

// ChartOfAccountModel is the persistence model for chart-of-accounts entries.
type ChartOfAccountModel struct {
	TenantAggregateModel
	Code     string              `gorm:"type:varchar(20);not null;uniqueIndex:idx_account_tenant_code,priority:2"`
	Name     string              `gorm:"type:varchar(200);not null"`
	Type     journal.AccountType `gorm:"type:varchar(20);not null;index"`
	ParentID *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ChartOfAccountModel) TableName() string {
	return "chart_of_accounts"
}

// ToDomain converts the persistence model to a domain ChartOfAccount entity.
func (m *ChartOfAccountModel) ToDomain() *journal.ChartOfAccount {
	a := &journal.ChartOfAccount{
		Code:     m.Code,
		Name:     m.Name,
		Type:     m.Type,
		ParentID: m.ParentID,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain ChartOfAccount entity.
func (m *ChartOfAccountModel) FromDomain(a *journal.ChartOfAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.ParentID = a.ParentID
}

// ChartOfAccountModelFromDomain creates a new persistence model from a domain ChartOfAccount.
func ChartOfAccountModelFromDomain(a *journal.ChartOfAccount) *ChartOfAccountModel {
	m := &ChartOfAccountModel{}
	m.FromDomain(a)
	return m
}

// JournalEntryModel is the persistence model for the append-only journal
// entry aggregate. Lines are stored in their own table and loaded eagerly;
// an entry is meaningless without them.
type JournalEntryModel struct {
	TenantAggregateModel
	EntryNumber   string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_entry_tenant_number,priority:2"`
	ReferenceType journal.ReferenceType `gorm:"type:varchar(20);not null;index:idx_entry_reference,priority:1"`
	ReferenceID   uuid.UUID             `gorm:"type:uuid;not null;index:idx_entry_reference,priority:2"`
	Description   string                `gorm:"type:varchar(500)"`

	TotalDebit  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCredit decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	Lines []JournalEntryLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalEntryLineModel is the persistence model for one debit or credit line.
type JournalEntryLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Memo      string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (JournalEntryLineModel) TableName() string {
	return "journal_entry_lines"
}

// ToDomain converts the persistence model to a domain Entry entity.
func (m *JournalEntryModel) ToDomain() *journal.Entry {
	lines := make([]journal.Line, len(m.Lines))
	for i, lm := range m.Lines {
		lines[i] = journal.Line{
			ID:        lm.ID,
			AccountID: lm.AccountID,
			Debit:     lm.Debit,
			Credit:    lm.Credit,
			Memo:      lm.Memo,
		}
	}

	e := &journal.Entry{
		EntryNumber:   m.EntryNumber,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Description:   m.Description,
		TotalDebit:    m.TotalDebit,
		TotalCredit:   m.TotalCredit,
		Lines:         lines,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain Entry entity.
func (m *JournalEntryModel) FromDomain(e *journal.Entry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.EntryNumber = e.EntryNumber
	m.ReferenceType = e.ReferenceType
	m.ReferenceID = e.ReferenceID
	m.Description = e.Description
	m.TotalDebit = e.TotalDebit
	m.TotalCredit = e.TotalCredit

	m.Lines = make([]JournalEntryLineModel, len(e.Lines))
	for i, line := range e.Lines {
		m.Lines[i] = JournalEntryLineModel{
			ID:        line.ID,
			EntryID:   e.ID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
		}
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain Entry.
func JournalEntryModelFromDomain(e *journal.Entry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(e)
	return m
}
