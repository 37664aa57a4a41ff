package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottohaus/worldlotto-backend/internal/config"
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories/memory"
)

func newAuthService() *AuthServiceImpl {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(memory.NewUserRepository(), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "Player@Example.com",
		Name:     "Player One",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", user.Email, "emails are normalized to lower case")
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct horse", user.Password, "passwords must be hashed")
	assert.Zero(t, user.Balance)

	resp, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "player@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	req := &models.RegisterRequest{Email: "dup@example.com", Name: "A", Password: "password1"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "a@example.com", Name: "A", Password: "password1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
