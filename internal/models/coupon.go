package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscountType distinguishes percentage coupons from fixed EUR coupons.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Coupon represents a discount code applicable at ticket purchase.
type Coupon struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code         string             `bson:"code" json:"code"`
	DiscountType DiscountType       `bson:"discountType" json:"discountType"`
	Value        float64            `bson:"value" json:"value"`
	MaxUses      int                `bson:"maxUses" json:"maxUses"` // 0 = unlimited
	UsedCount    int                `bson:"usedCount" json:"usedCount"`
	ExpiresAt    time.Time          `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Usable reports whether the coupon can still be redeemed at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false
	}
	if !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt) {
		return false
	}
	return true
}

// Apply returns the discounted price, never below zero.
func (c *Coupon) Apply(price float64) float64 {
	var discounted float64
	switch c.DiscountType {
	case DiscountPercentage:
		discounted = price * (1 - c.Value/100)
	case DiscountFixed:
		discounted = price - c.Value
	default:
		discounted = price
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}
