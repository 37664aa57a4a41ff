package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/repositories/memory"
)

func TestSettingsServiceToggles(t *testing.T) {
	svc := NewSettingsService(memory.NewSystemStateRepository())
	ctx := context.Background()

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.ManualSalesStop)
	assert.True(t, settings.IntelligentDrawing, "intelligent drawing is the default")

	settings, err = svc.SetManualSalesStop(ctx, true, "admin-1")
	require.NoError(t, err)
	assert.True(t, settings.ManualSalesStop)
	assert.Equal(t, "admin-1", settings.UpdatedBy)

	settings, err = svc.SetIntelligentDrawing(ctx, false, "admin-2")
	require.NoError(t, err)
	assert.False(t, settings.IntelligentDrawing)
	assert.True(t, settings.ManualSalesStop, "toggles must not clobber each other")
}

func TestSettingsServiceBlockedCountriesNormalized(t *testing.T) {
	svc := NewSettingsService(memory.NewSystemStateRepository())

	settings, err := svc.SetBlockedCountries(context.Background(), []string{" de ", "fr", ""}, "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"DE", "FR"}, settings.BlockedCountries)
	assert.True(t, settings.IsCountryBlocked("DE"))
	assert.False(t, settings.IsCountryBlocked("US"))
}

func TestSettingsServiceExemptUsers(t *testing.T) {
	svc := NewSettingsService(memory.NewSystemStateRepository())

	id := primitive.NewObjectID()
	settings, err := svc.SetCutoffExemptUsers(context.Background(), []primitive.ObjectID{id}, "admin")
	require.NoError(t, err)
	assert.True(t, settings.IsExempt(id))
	assert.False(t, settings.IsExempt(primitive.NewObjectID()))
}
