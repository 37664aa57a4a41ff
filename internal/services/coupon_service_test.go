package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories/memory"
)

func TestCreateCouponValidation(t *testing.T) {
	svc := NewCouponService(memory.NewCouponRepository())
	ctx := context.Background()

	created, err := svc.CreateCoupon(ctx, &models.Coupon{
		Code:         "welcome10",
		DiscountType: models.DiscountPercentage,
		Value:        10,
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code)
	assert.True(t, created.IsActive)

	_, err = svc.CreateCoupon(ctx, &models.Coupon{
		Code: "WELCOME10", DiscountType: models.DiscountPercentage, Value: 10,
	})
	assert.ErrorIs(t, err, ErrCouponCodeTaken)

	_, err = svc.CreateCoupon(ctx, &models.Coupon{
		Code: "BAD", DiscountType: models.DiscountPercentage, Value: 150,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateCoupon(ctx, &models.Coupon{
		Code: "BAD", DiscountType: "BOGUS", Value: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateCouponGeneratesCode(t *testing.T) {
	svc := NewCouponService(memory.NewCouponRepository())

	created, err := svc.CreateCoupon(context.Background(), &models.Coupon{
		DiscountType: models.DiscountFixed,
		Value:        1,
	})
	require.NoError(t, err)
	assert.Len(t, created.Code, 8)
}

func TestValidateCoupon(t *testing.T) {
	svc := NewCouponService(memory.NewCouponRepository())
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, &models.Coupon{
		Code: "FIXED1", DiscountType: models.DiscountFixed, Value: 1,
	})
	require.NoError(t, err)

	coupon, discounted, err := svc.ValidateCoupon(ctx, "fixed1", 2)
	require.NoError(t, err)
	assert.Equal(t, "FIXED1", coupon.Code)
	assert.Equal(t, 1.0, discounted)
	assert.Zero(t, coupon.UsedCount, "validation must not redeem")

	_, _, err = svc.ValidateCoupon(ctx, "MISSING", 2)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestValidateExpiredOrExhaustedCoupon(t *testing.T) {
	repo := memory.NewCouponRepository()
	svc := NewCouponService(repo)
	ctx := context.Background()

	expired, err := svc.CreateCoupon(ctx, &models.Coupon{
		Code: "EXPIRED", DiscountType: models.DiscountFixed, Value: 1,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	_, _, err = svc.ValidateCoupon(ctx, expired.Code, 2)
	assert.ErrorIs(t, err, ErrCouponNotUsable)

	exhausted, err := svc.CreateCoupon(ctx, &models.Coupon{
		Code: "ONESHOT", DiscountType: models.DiscountFixed, Value: 1, MaxUses: 1,
	})
	require.NoError(t, err)
	exhausted.UsedCount = 1
	require.NoError(t, repo.Update(ctx, exhausted))

	_, _, err = svc.ValidateCoupon(ctx, "ONESHOT", 2)
	assert.ErrorIs(t, err, ErrCouponNotUsable)
}
