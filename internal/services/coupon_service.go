package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure CouponServiceImpl implements CouponService
var _ CouponService = (*CouponServiceImpl)(nil)

// CouponServiceImpl manages discount coupons. Redemption counting happens
// in the purchase path, not here.
type CouponServiceImpl struct {
	couponRepo repositories.CouponRepository
}

// NewCouponService creates a CouponServiceImpl.
func NewCouponService(couponRepo repositories.CouponRepository) *CouponServiceImpl {
	return &CouponServiceImpl{couponRepo: couponRepo}
}

// CreateCoupon stores a new coupon. An empty code gets a generated one.
func (s *CouponServiceImpl) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if coupon.Code == "" {
		coupon.Code = strings.ToUpper(uuid.NewString()[:8])
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))

	if coupon.DiscountType != models.DiscountPercentage && coupon.DiscountType != models.DiscountFixed {
		return nil, fmt.Errorf("%w: unknown discount type %q", ErrInvalidAmount, coupon.DiscountType)
	}
	if coupon.Value <= 0 || (coupon.DiscountType == models.DiscountPercentage && coupon.Value > 100) {
		return nil, fmt.Errorf("%w: discount value out of range", ErrInvalidAmount)
	}

	if _, err := s.couponRepo.FindByCode(ctx, coupon.Code); err == nil {
		return nil, ErrCouponCodeTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check coupon code: %w", err)
	}

	coupon.IsActive = true
	coupon.UsedCount = 0
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	slog.Info("Coupon created", "code", coupon.Code, "type", coupon.DiscountType, "value", coupon.Value)
	return coupon, nil
}

// GetCoupon returns a coupon by ID.
func (s *CouponServiceImpl) GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return coupon, nil
}

// ListCoupons returns all coupons.
func (s *CouponServiceImpl) ListCoupons(ctx context.Context) ([]*models.Coupon, error) {
	return s.couponRepo.FindAll(ctx)
}

// UpdateCoupon replaces a coupon's mutable fields.
func (s *CouponServiceImpl) UpdateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	existing, err := s.GetCoupon(ctx, coupon.ID)
	if err != nil {
		return nil, err
	}
	existing.Value = coupon.Value
	existing.DiscountType = coupon.DiscountType
	existing.MaxUses = coupon.MaxUses
	existing.ExpiresAt = coupon.ExpiresAt
	existing.IsActive = coupon.IsActive
	if err := s.couponRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return existing, nil
}

// DeleteCoupon removes a coupon.
func (s *CouponServiceImpl) DeleteCoupon(ctx context.Context, id primitive.ObjectID) error {
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return nil
}

// ValidateCoupon checks a code against the given price and returns the
// coupon and the discounted price. Nothing is redeemed.
func (s *CouponServiceImpl) ValidateCoupon(ctx context.Context, code string, price float64) (*models.Coupon, float64, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrCouponNotFound
		}
		return nil, 0, fmt.Errorf("failed to find coupon: %w", err)
	}
	if !coupon.Usable(time.Now()) {
		return nil, 0, ErrCouponNotUsable
	}
	return coupon, coupon.Apply(price), nil
}
