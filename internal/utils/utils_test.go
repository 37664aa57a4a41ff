package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottohaus/worldlotto-backend/internal/config"
)

func TestValidateNumberPick(t *testing.T) {
	assert.NoError(t, ValidateNumberPick([]int{1, 2, 3, 4, 50}, 5, 50))
	assert.Error(t, ValidateNumberPick([]int{1, 2, 3, 4}, 5, 50), "wrong count")
	assert.Error(t, ValidateNumberPick([]int{1, 2, 3, 4, 51}, 5, 50), "out of range")
	assert.Error(t, ValidateNumberPick([]int{0, 2, 3, 4, 5}, 5, 50), "below range")
	assert.Error(t, ValidateNumberPick([]int{1, 1, 3, 4, 5}, 5, 50), "duplicate")
}

func TestSortedCopyLeavesInputIntact(t *testing.T) {
	input := []int{5, 3, 1}
	sorted := SortedCopy(input)
	assert.Equal(t, []int{1, 3, 5}, sorted)
	assert.Equal(t, []int{5, 3, 1}, input)
}

func TestNextDrawTime(t *testing.T) {
	// Monday -> coming Tuesday.
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	next := NextDrawTime(monday, 20)
	assert.Equal(t, time.Date(2026, 1, 6, 20, 0, 0, 0, time.UTC), next)

	// Tuesday before the draw hour -> same day.
	tuesdayMorning := time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 6, 20, 0, 0, 0, time.UTC), NextDrawTime(tuesdayMorning, 20))

	// Tuesday after the draw hour -> Friday.
	tuesdayNight := time.Date(2026, 1, 6, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 9, 20, 0, 0, 0, time.UTC), NextDrawTime(tuesdayNight, 20))

	// Exactly at the draw instant -> strictly after, so Friday.
	atDraw := time.Date(2026, 1, 6, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 9, 20, 0, 0, 0, time.UTC), NextDrawTime(atDraw, 20))

	// Saturday -> Tuesday.
	saturday := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 13, 20, 0, 0, 0, time.UTC), NextDrawTime(saturday, 20))
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600

	token, err := GenerateJWT("user-123", "admin", cfg)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestValidateJWTWrongSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600

	token, err := GenerateJWT("user-123", "user", cfg)
	require.NoError(t, err)

	other := &config.Config{}
	other.JWT.Secret = "different"
	_, err = ValidateJWT(token, other)
	assert.Error(t, err)
}
