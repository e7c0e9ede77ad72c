package journal

import (
	"context"

	"github.com/google/uuid"
	"github.com/talabia/backend/internal/domain/shared"
)

// EntryRepository persists journal entries. Entries are append-only, so
// the interface deliberately has no update or delete methods.
type EntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)
	FindByReference(ctx context.Context, tenantID uuid.UUID, referenceType ReferenceType, referenceID uuid.UUID) ([]Entry, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Entry, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Create(ctx context.Context, entry *Entry) error
	GenerateEntryNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// AccountRepository provides read access to the chart of accounts plus the
// seeding path used at tenant bootstrap.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ChartOfAccount, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ChartOfAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ChartOfAccount, error)
	Save(ctx context.Context, account *ChartOfAccount) error
}
