package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettlementAdjustmentRepository implements settlement.AdjustmentRepository using GORM
type GormSettlementAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormSettlementAdjustmentRepository creates a new GormSettlementAdjustmentRepository
func NewGormSettlementAdjustmentRepository(db *gorm.DB) *GormSettlementAdjustmentRepository {
	return &GormSettlementAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by its ID
func (r *GormSettlementAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Adjustment, error) {
	var model models.SettlementAdjustmentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingForRecipient finds adjustments not yet netted against a
// settlement for a recipient, oldest first
func (r *GormSettlementAdjustmentRepository) FindPendingForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) ([]settlement.Adjustment, error) {
	var adjustmentModels []models.SettlementAdjustmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recipient_type = ? AND recipient_id = ? AND status = ?",
			tenantID, recipientType, recipientID, settlement.AdjustmentStatusPending).
		Order("created_at ASC").
		Find(&adjustmentModels).Error; err != nil {
		return nil, err
	}
	adjustments := make([]settlement.Adjustment, len(adjustmentModels))
	for i, model := range adjustmentModels {
		adjustments[i] = *model.ToDomain()
	}
	return adjustments, nil
}

// SumPendingForRecipient calculates total pending adjustment amounts for a
// recipient
func (r *GormSettlementAdjustmentRepository) SumPendingForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SettlementAdjustmentModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND recipient_type = ? AND recipient_id = ? AND status = ?",
			tenantID, recipientType, recipientID, settlement.AdjustmentStatusPending).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates an adjustment
func (r *GormSettlementAdjustmentRepository) Save(ctx context.Context, adjustment *settlement.Adjustment) error {
	model := models.SettlementAdjustmentModelFromDomain(adjustment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSettlementAdjustmentRepository implements settlement.AdjustmentRepository
var _ settlement.AdjustmentRepository = (*GormSettlementAdjustmentRepository)(nil)
