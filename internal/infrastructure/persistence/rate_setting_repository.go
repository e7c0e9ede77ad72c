package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/rates"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRateSettingRepository implements rates.SettingRepository using GORM
type GormRateSettingRepository struct {
	db *gorm.DB
}

// NewGormRateSettingRepository creates a new GormRateSettingRepository
func NewGormRateSettingRepository(db *gorm.DB) *GormRateSettingRepository {
	return &GormRateSettingRepository{db: db}
}

// FindByID finds a rate setting by its ID
func (r *GormRateSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*rates.Setting, error) {
	var model models.RateSettingModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByAppliesTo finds the active setting for a discriminator. Returns
// nil without error when none is configured so callers can fall back to
// defaults.
func (r *GormRateSettingRepository) FindActiveByAppliesTo(ctx context.Context, tenantID uuid.UUID, appliesTo rates.AppliesTo) (*rates.Setting, error) {
	var model models.RateSettingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND applies_to = ? AND active = ?", tenantID, appliesTo, true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all rate settings for a tenant
func (r *GormRateSettingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]rates.Setting, error) {
	var settingModels []models.RateSettingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("applies_to ASC, name ASC").
		Find(&settingModels).Error; err != nil {
		return nil, err
	}
	settings := make([]rates.Setting, len(settingModels))
	for i, model := range settingModels {
		settings[i] = *model.ToDomain()
	}
	return settings, nil
}

// Save creates or updates a rate setting
func (r *GormRateSettingRepository) Save(ctx context.Context, setting *rates.Setting) error {
	model := models.RateSettingModelFromDomain(setting)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormRateSettingRepository implements rates.SettingRepository
var _ rates.SettingRepository = (*GormRateSettingRepository)(nil)
