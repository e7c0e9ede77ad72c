package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talabia/backend/internal/domain/rates"
	"github.com/talabia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RateSettingService manages the tenant's configurable VAT and commission
// percentages. Changes here only affect future checkouts: orders carry the
// rate snapshot taken when they were created.
type RateSettingService struct {
	settings rates.SettingRepository
	logger   *zap.Logger
}

// NewRateSettingService creates a new RateSettingService
func NewRateSettingService(settings rates.SettingRepository, logger *zap.Logger) *RateSettingService {
	return &RateSettingService{
		settings: settings,
		logger:   logger,
	}
}

// ListSettings returns all rate settings for a tenant
func (s *RateSettingService) ListSettings(ctx context.Context, tenantID uuid.UUID) ([]rates.Setting, error) {
	settings, err := s.settings.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate settings: %w", err)
	}
	return settings, nil
}

// CreateSettingRequest represents a request to configure a rate
type CreateSettingRequest struct {
	TenantID  uuid.UUID
	Name      string
	AppliesTo rates.AppliesTo
	Percent   decimal.Decimal
}

// CreateSetting configures a new active rate. Any previously active setting
// for the same discriminator is deactivated so lookups stay unambiguous.
func (s *RateSettingService) CreateSetting(ctx context.Context, req CreateSettingRequest) (*rates.Setting, error) {
	setting, err := rates.NewSetting(req.TenantID, req.Name, req.AppliesTo, req.Percent)
	if err != nil {
		return nil, err
	}

	existing, err := s.settings.FindActiveByAppliesTo(ctx, req.TenantID, req.AppliesTo)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rate setting: %w", err)
	}
	if existing != nil {
		existing.Deactivate()
		if err := s.settings.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to deactivate previous rate setting: %w", err)
		}
	}

	if err := s.settings.Save(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to save rate setting: %w", err)
	}

	s.logger.Info("rate setting created",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("applies_to", req.AppliesTo.String()),
		zap.String("percent", req.Percent.String()))

	return setting, nil
}

// UpdateSettingPercent changes the percentage of an existing setting
func (s *RateSettingService) UpdateSettingPercent(ctx context.Context, tenantID, settingID uuid.UUID, percent decimal.Decimal) (*rates.Setting, error) {
	setting, err := s.settings.FindByID(ctx, settingID)
	if err != nil {
		return nil, err
	}
	if setting.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}

	if err := setting.UpdatePercent(percent); err != nil {
		return nil, err
	}
	if err := s.settings.Save(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to save rate setting: %w", err)
	}

	s.logger.Info("rate setting updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("setting_id", settingID.String()),
		zap.String("percent", percent.String()))

	return setting, nil
}

// DeactivateSetting marks a setting inactive so checkouts fall back to the
// default rate for its discriminator
func (s *RateSettingService) DeactivateSetting(ctx context.Context, tenantID, settingID uuid.UUID) (*rates.Setting, error) {
	setting, err := s.settings.FindByID(ctx, settingID)
	if err != nil {
		return nil, err
	}
	if setting.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}

	setting.Deactivate()
	if err := s.settings.Save(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to save rate setting: %w", err)
	}
	return setting, nil
}
