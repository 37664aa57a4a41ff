package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemStateReserveFund(t *testing.T) {
	repo := NewSystemStateRepository()
	ctx := context.Background()

	amount, err := repo.GetReserveFund(ctx)
	require.NoError(t, err)
	assert.Zero(t, amount)

	require.NoError(t, repo.SetReserveFund(ctx, 1234.5))
	amount, err = repo.GetReserveFund(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, amount)

	assert.Error(t, repo.SetReserveFund(ctx, -1), "negative reserve must be rejected")
	amount, err = repo.GetReserveFund(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, amount, "a rejected write must not change the value")
}

func TestSystemStateSettingsRoundTrip(t *testing.T) {
	repo := NewSystemStateRepository()
	ctx := context.Background()

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.ManualSalesStop)

	settings.ManualSalesStop = true
	settings.BlockedCountries = []string{"DE"}
	require.NoError(t, repo.UpdateSettings(ctx, settings))

	reloaded, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.ManualSalesStop)
	assert.Equal(t, []string{"DE"}, reloaded.BlockedCountries)
}
