package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/refund"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRefundRepository implements refund.Repository using GORM
type GormOrderRefundRepository struct {
	db *gorm.DB
}

// NewGormOrderRefundRepository creates a new GormOrderRefundRepository
func NewGormOrderRefundRepository(db *gorm.DB) *GormOrderRefundRepository {
	return &GormOrderRefundRepository{db: db}
}

// FindByID finds a refund by its ID
func (r *GormOrderRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*refund.OrderRefund, error) {
	var model models.OrderRefundModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a refund by ID for a specific tenant
func (r *GormOrderRefundRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*refund.OrderRefund, error) {
	var model models.OrderRefundModel
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

// FindByLine finds all refunds against one order line, oldest first
func (r *GormOrderRefundRepository) FindByLine(ctx context.Context, tenantID, orderItemDetailID uuid.UUID) ([]refund.OrderRefund, error) {
	var refundModels []models.OrderRefundModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_item_detail_id = ?", tenantID, orderItemDetailID).
		Order("created_at ASC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	refunds := make([]refund.OrderRefund, len(refundModels))
	for i, model := range refundModels {
		refunds[i] = *model.ToDomain()
	}
	return refunds, nil
}

// FindByOrder finds all refunds against an order, oldest first
func (r *GormOrderRefundRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]refund.OrderRefund, error) {
	var refundModels []models.OrderRefundModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	refunds := make([]refund.OrderRefund, len(refundModels))
	for i, model := range refundModels {
		refunds[i] = *model.ToDomain()
	}
	return refunds, nil
}

// SumPayoutReversedByStore calculates total reversed merchant payout for a
// store's orders
func (r *GormOrderRefundRepository) SumPayoutReversedByStore(ctx context.Context, tenantID, storeID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderRefundModel{}).
		Select("COALESCE(SUM(order_refunds.merchant_payout), 0) as total").
		Joins("JOIN orders ON orders.id = order_refunds.order_id").
		Where("order_refunds.tenant_id = ? AND orders.store_id = ?", tenantID, storeID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a refund record
func (r *GormOrderRefundRepository) Save(ctx context.Context, rf *refund.OrderRefund) error {
	model := models.OrderRefundModelFromDomain(rf)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormOrderRefundRepository implements refund.Repository
var _ refund.Repository = (*GormOrderRefundRepository)(nil)
