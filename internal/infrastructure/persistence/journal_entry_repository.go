package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/journal"
	"github.com/talabia/backend/internal/domain/shared"
	"github.com/talabia/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// JournalEntrySortFields contains allowed sort fields for journal entries
var JournalEntrySortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"entry_number":   true,
	"reference_type": true,
	"total_debit":    true,
	"total_credit":   true,
}

// GormJournalEntryRepository implements journal.EntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID finds a journal entry by its ID
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a journal entry by ID for a specific tenant
func (r *GormJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*journal.Entry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds journal entries by source document, oldest first
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, referenceType journal.ReferenceType, referenceID uuid.UUID) ([]journal.Entry, error) {
	var entryModels []models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, referenceType, referenceID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]journal.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// FindAllForTenant finds all journal entries for a tenant with filtering
func (r *GormJournalEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]journal.Entry, error) {
	var entryModels []models.JournalEntryModel
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Preload("Lines").
		Where("tenant_id = ?", tenantID)
	query = applyListFilter(query, filter, JournalEntrySortFields, "created_at")

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]journal.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// CountForTenant counts journal entries for a tenant
func (r *GormJournalEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new journal entry with its lines. Entries are append-only;
// there is deliberately no update path.
func (r *GormJournalEntryRepository) Create(ctx context.Context, entry *journal.Entry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// GenerateEntryNumber generates a unique journal entry number
func (r *GormJournalEntryRepository) GenerateEntryNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: JE-YYYYMM-XXXXX
	month := time.Now().Format("200601")
	prefix := fmt.Sprintf("JE-%s-", month)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.JournalEntryModel{}).
		Select("entry_number").
		Where("tenant_id = ? AND entry_number LIKE ?", tenantID, prefix+"%").
		Order("entry_number DESC").
		Limit(1).
		Pluck("entry_number", &maxNumber).Error; err != nil {
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

// Ensure GormJournalEntryRepository implements journal.EntryRepository
var _ journal.EntryRepository = (*GormJournalEntryRepository)(nil)
