package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/settlement"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// SettlementSortFields contains allowed sort fields for settlements
var SettlementSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"settlement_number": true,
	"status":            true,
	"total_amount":      true,
}

// GormSettlementRepository implements settlement.Repository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// FindByID finds a settlement by its ID
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a settlement by ID for a specific tenant
func (r *GormSettlementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForRecipient finds settlements for a recipient with filtering
func (r *GormSettlementRepository) FindAllForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID, filter shared.Filter) ([]settlement.Settlement, error) {
	var settlementModels []models.SettlementModel
	query := r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Preload("Items").
		Where("tenant_id = ? AND recipient_type = ? AND recipient_id = ?", tenantID, recipientType, recipientID)
	query = applyListFilter(query, filter, SettlementSortFields, "created_at")

	if err := query.Find(&settlementModels).Error; err != nil {
		return nil, err
	}
	settlements := make([]settlement.Settlement, len(settlementModels))
	for i, model := range settlementModels {
		settlements[i] = *model.ToDomain()
	}
	return settlements, nil
}

// SumCompletedForRecipient calculates total completed settlement amounts for
// a recipient
func (r *GormSettlementRepository) SumCompletedForRecipient(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SettlementModel{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("tenant_id = ? AND recipient_type = ? AND recipient_id = ? AND status = ?",
			tenantID, recipientType, recipientID, settlement.StatusCompleted).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SettledOrderIDs returns the IDs of orders covered by a completed settlement
// for the recipient
func (r *GormSettlementRepository) SettledOrderIDs(ctx context.Context, tenantID uuid.UUID, recipientType settlement.RecipientType, recipientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.SettlementItemModel{}).
		Select("settlement_items.order_id").
		Joins("JOIN settlements ON settlements.id = settlement_items.settlement_id").
		Where("settlements.tenant_id = ? AND settlements.recipient_type = ? AND settlements.recipient_id = ? AND settlements.status = ?",
			tenantID, recipientType, recipientID, settlement.StatusCompleted).
		Pluck("settlement_items.order_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a settlement and its items
func (r *GormSettlementRepository) Save(ctx context.Context, stl *settlement.Settlement) error {
	model := models.SettlementModelFromDomain(stl)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateSettlementNumber generates a unique settlement number
func (r *GormSettlementRepository) GenerateSettlementNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: STL-YYYYMM-XXXXX
	month := time.Now().Format("200601")
	prefix := fmt.Sprintf("STL-%s-", month)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.SettlementModel{}).
		Select("settlement_number").
		Where("tenant_id = ? AND settlement_number LIKE ?", tenantID, prefix+"%").
		Order("settlement_number DESC").
		Limit(1).
		Pluck("settlement_number", &maxNumber).Error; err != nil {
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

// Ensure GormSettlementRepository implements settlement.Repository
var _ settlement.Repository = (*GormSettlementRepository)(nil)
