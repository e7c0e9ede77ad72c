package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/ordering"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"store_id":     true,
	"customer_id":  true,
	"status":       true,
	"order_total":  true,
	"delivered_at": true,
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an order by ID for a specific tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
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

// FindByOrderNumber finds an order by order number for a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all orders for a tenant with filtering
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ?", tenantID)
	query = applyListFilter(query, filter, OrderSortFields, "created_at")

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// CountForTenant counts all orders for a tenant
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// settledOrderIDsSubquery selects order IDs already covered by a completed
// settlement for the tenant.
func (r *GormOrderRepository) settledOrderIDsSubquery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.SettlementItemModel{}).
		Select("settlement_items.order_id").
		Joins("JOIN settlements ON settlements.id = settlement_items.settlement_id").
		Where("settlements.tenant_id = ? AND settlements.status = ?", tenantID, settlement.StatusCompleted)
}

// FindDeliveredUnsettledByStore finds delivered orders for a store not yet
// covered by a completed settlement, oldest first
func (r *GormOrderRepository) FindDeliveredUnsettledByStore(ctx context.Context, tenantID, storeID uuid.UUID) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND store_id = ? AND status = ?", tenantID, storeID, ordering.OrderStatusDelivered).
		Where("id NOT IN (?)", r.settledOrderIDsSubquery(ctx, tenantID)).
		Order("delivered_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// FindDeliveredUnsettledByCourier finds delivered orders assigned to a courier
// not yet covered by a completed settlement, oldest first
func (r *GormOrderRepository) FindDeliveredUnsettledByCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND courier_id = ? AND status = ?", tenantID, courierID, ordering.OrderStatusDelivered).
		Where("id NOT IN (?)", r.settledOrderIDsSubquery(ctx, tenantID)).
		Order("delivered_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// SumDeliveredMerchantPayout calculates total merchant payout over delivered
// orders for a store
func (r *GormOrderRepository) SumDeliveredMerchantPayout(ctx context.Context, tenantID, storeID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COALESCE(SUM(merchant_payout), 0) as total").
		Where("tenant_id = ? AND store_id = ? AND status = ?", tenantID, storeID, ordering.OrderStatusDelivered).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumDeliveredDeliveryFees calculates total ex-VAT delivery fees over
// delivered orders assigned to a courier
func (r *GormOrderRepository) SumDeliveredDeliveryFees(ctx context.Context, tenantID, courierID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COALESCE(SUM(delivery_fee_ex_vat), 0) as total").
		Where("tenant_id = ? AND courier_id = ? AND status = ?", tenantID, courierID, ordering.OrderStatusDelivered).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// GenerateOrderNumber generates a unique order number
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: ORD-YYYYMM-XXXXX
	month := time.Now().Format("200601")
	prefix := fmt.Sprintf("ORD-%s-", month)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("order_number").
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyListFilter applies pagination and whitelisted ordering to a list query
func applyListFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
