package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderItemDetailRepository implements OrderItemDetailRepository using GORM
type GormOrderItemDetailRepository struct {
	db *gorm.DB
}

// NewGormOrderItemDetailRepository creates a new GormOrderItemDetailRepository
func NewGormOrderItemDetailRepository(db *gorm.DB) *GormOrderItemDetailRepository {
	return &GormOrderItemDetailRepository{db: db}
}

// FindByID finds a line snapshot by its ID
func (r *GormOrderItemDetailRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.OrderItemDetail, error) {
	var model models.OrderItemDetailModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a line snapshot by ID for a specific tenant
func (r *GormOrderItemDetailRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.OrderItemDetail, error) {
	var model models.OrderItemDetailModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder finds all line snapshots for an order
func (r *GormOrderItemDetailRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderItemDetail, error) {
	var detailModels []models.OrderItemDetailModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&detailModels).Error; err != nil {
		return nil, err
	}
	details := make([]ordering.OrderItemDetail, len(detailModels))
	for i, model := range detailModels {
		details[i] = *model.ToDomain()
	}
	return details, nil
}

// Save creates or updates a line snapshot
func (r *GormOrderItemDetailRepository) Save(ctx context.Context, detail *ordering.OrderItemDetail) error {
	model := models.OrderItemDetailModelFromDomain(detail)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormOrderItemDetailRepository) SaveWithLock(ctx context.Context, detail *ordering.OrderItemDetail) error {
	model := models.OrderItemDetailModelFromDomain(detail)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", detail.ID, detail.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// Ensure GormOrderItemDetailRepository implements OrderItemDetailRepository
var _ ordering.OrderItemDetailRepository = (*GormOrderItemDetailRepository)(nil)
