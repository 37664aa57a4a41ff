package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SettingsServiceImpl implements SettingsService
var _ SettingsService = (*SettingsServiceImpl)(nil)

// SettingsServiceImpl wraps the admin settings stored in system state.
type SettingsServiceImpl struct {
	stateRepo repositories.SystemStateRepository
}

// NewSettingsService creates a SettingsServiceImpl.
func NewSettingsService(stateRepo repositories.SystemStateRepository) *SettingsServiceImpl {
	return &SettingsServiceImpl{stateRepo: stateRepo}
}

// Settings returns the current admin settings.
func (s *SettingsServiceImpl) Settings(ctx context.Context) (*models.AdminSettings, error) {
	return s.stateRepo.GetSettings(ctx)
}

// SetManualSalesStop toggles the immediate sales stop.
func (s *SettingsServiceImpl) SetManualSalesStop(ctx context.Context, stopped bool, actor string) (*models.AdminSettings, error) {
	return s.update(ctx, actor, func(settings *models.AdminSettings) {
		settings.ManualSalesStop = stopped
	})
}

// SetIntelligentDrawing toggles frequency-based number selection for
// scheduled drawings.
func (s *SettingsServiceImpl) SetIntelligentDrawing(ctx context.Context, enabled bool, actor string) (*models.AdminSettings, error) {
	return s.update(ctx, actor, func(settings *models.AdminSettings) {
		settings.IntelligentDrawing = enabled
	})
}

// SetCutoffExemptUsers replaces the list of users allowed to purchase past
// the cutoff and through a manual sales stop.
func (s *SettingsServiceImpl) SetCutoffExemptUsers(ctx context.Context, userIDs []primitive.ObjectID, actor string) (*models.AdminSettings, error) {
	return s.update(ctx, actor, func(settings *models.AdminSettings) {
		settings.CutoffExemptUsers = userIDs
	})
}

// SetBlockedCountries replaces the geoblocking list. Country codes are
// normalized to upper case ISO 3166-1 alpha-2.
func (s *SettingsServiceImpl) SetBlockedCountries(ctx context.Context, countries []string, actor string) (*models.AdminSettings, error) {
	normalized := make([]string, 0, len(countries))
	for _, c := range countries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			normalized = append(normalized, c)
		}
	}
	return s.update(ctx, actor, func(settings *models.AdminSettings) {
		settings.BlockedCountries = normalized
	})
}

func (s *SettingsServiceImpl) update(ctx context.Context, actor string, apply func(*models.AdminSettings)) (*models.AdminSettings, error) {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	apply(settings)
	settings.UpdatedBy = actor
	settings.UpdatedAt = time.Now()
	if err := s.stateRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	slog.Info("Admin settings updated", "actor", actor,
		"manualSalesStop", settings.ManualSalesStop, "intelligentDrawing", settings.IntelligentDrawing)
	return settings, nil
}
