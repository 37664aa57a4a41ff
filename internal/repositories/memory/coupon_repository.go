package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CouponRepository is the in-memory coupon store.
type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[primitive.ObjectID]*models.Coupon
}

// NewCouponRepository creates an empty in-memory coupon repository.
func NewCouponRepository() repositories.CouponRepository {
	return &CouponRepository{
		coupons: make(map[primitive.ObjectID]*models.Coupon),
	}
}

func cloneCoupon(c *models.Coupon) *models.Coupon {
	clone := *c
	return &clone
}

// Create stores a new coupon, assigning its ID and timestamps.
func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if coupon.ID.IsZero() {
		coupon.ID = primitive.NewObjectID()
	}
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = coupon.CreatedAt
	r.coupons[coupon.ID] = cloneCoupon(coupon)
	return nil
}

// FindByID finds a coupon by ID.
func (r *CouponRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.coupons[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneCoupon(coupon), nil
}

// FindByCode finds a coupon by its redemption code, case-insensitively.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			return cloneCoupon(c), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindAll returns all coupons ordered by creation time.
func (r *CouponRepository) FindAll(ctx context.Context) ([]*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		result = append(result, cloneCoupon(c))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Update replaces a stored coupon.
func (r *CouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[coupon.ID]; !ok {
		return repositories.ErrNotFound
	}
	coupon.UpdatedAt = time.Now()
	r.coupons[coupon.ID] = cloneCoupon(coupon)
	return nil
}

// Delete removes a coupon.
func (r *CouponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.coupons, id)
	return nil
}
