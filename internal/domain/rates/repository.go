package rates

import (
	"context"

	"github.com/google/uuid"
)

// SettingRepository provides access to persisted rate settings
type SettingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Setting, error)
	// FindActiveByAppliesTo returns the active setting for the given
	// discriminator, or nil when none is configured.
	FindActiveByAppliesTo(ctx context.Context, tenantID uuid.UUID, appliesTo AppliesTo) (*Setting, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Setting, error)
	Save(ctx context.Context, setting *Setting) error
}
