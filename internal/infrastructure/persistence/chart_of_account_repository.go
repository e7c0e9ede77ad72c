package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormChartOfAccountRepository implements journal.AccountRepository using GORM
type GormChartOfAccountRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountRepository creates a new GormChartOfAccountRepository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormChartOfAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*journal.ChartOfAccount, error) {
	var model models.ChartOfAccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by code for a tenant
func (r *GormChartOfAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*journal.ChartOfAccount, error) {
	var model models.ChartOfAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all accounts for a tenant ordered by code
func (r *GormChartOfAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]journal.ChartOfAccount, error) {
	var accountModels []models.ChartOfAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]journal.ChartOfAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormChartOfAccountRepository) Save(ctx context.Context, account *journal.ChartOfAccount) error {
	model := models.ChartOfAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormChartOfAccountRepository implements journal.AccountRepository
var _ journal.AccountRepository = (*GormChartOfAccountRepository)(nil)
