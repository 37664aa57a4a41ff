package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
)

// ErrNegativeReserve is returned when a caller tries to set the reserve
// fund below zero.
var ErrNegativeReserve = errors.New("reserve fund cannot be negative")

// SystemStateRepository holds the global reserve fund and the runtime
// admin settings. Both are single-writer state; the repository only
// guarantees internal consistency, serialization of the settlement path
// is the lottery service's responsibility.
type SystemStateRepository struct {
	mu          sync.RWMutex
	reserveFund float64
	settings    models.AdminSettings
}

// NewSystemStateRepository creates the system state with an empty reserve
// and default settings (intelligent drawing enabled).
func NewSystemStateRepository() repositories.SystemStateRepository {
	return &SystemStateRepository{
		settings: models.AdminSettings{
			IntelligentDrawing: true,
			UpdatedAt:          time.Now(),
		},
	}
}

// GetReserveFund returns the current reserve fund balance.
func (r *SystemStateRepository) GetReserveFund(ctx context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reserveFund, nil
}

// SetReserveFund replaces the reserve fund balance. Negative amounts are
// rejected.
func (r *SystemStateRepository) SetReserveFund(ctx context.Context, amount float64) error {
	if amount < 0 {
		return ErrNegativeReserve
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reserveFund = amount
	return nil
}

// GetSettings returns a copy of the current admin settings.
func (r *SystemStateRepository) GetSettings(ctx context.Context) (*models.AdminSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := r.settings
	settings.CutoffExemptUsers = append(settings.CutoffExemptUsers[:0:0], r.settings.CutoffExemptUsers...)
	settings.BlockedCountries = append(settings.BlockedCountries[:0:0], r.settings.BlockedCountries...)
	return &settings, nil
}

// UpdateSettings replaces the admin settings.
func (r *SystemStateRepository) UpdateSettings(ctx context.Context, settings *models.AdminSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings.UpdatedAt = time.Now()
	r.settings = *settings
	return nil
}
