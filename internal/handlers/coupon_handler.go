package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/services"
)

// CouponHandler handles coupon management and validation requests.
type CouponHandler struct {
	couponService services.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

type couponRequest struct {
	Code         string    `json:"code"`
	DiscountType string    `json:"discountType" binding:"required"`
	Value        float64   `json:"value" binding:"required,gt=0"`
	MaxUses      int       `json:"maxUses"`
	ExpiresAt    time.Time `json:"expiresAt"`
	IsActive     *bool     `json:"isActive"`
}

// Create handles POST /admin/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), &models.Coupon{
		Code:         req.Code,
		DiscountType: models.DiscountType(req.DiscountType),
		Value:        req.Value,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouponCodeTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

// GetAll handles GET /admin/coupons
func (h *CouponHandler) GetAll(c *gin.Context) {
	coupons, err := h.couponService.ListCoupons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve coupons: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// Update handles PUT /admin/coupons/:id
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), &models.Coupon{
		ID:           id,
		DiscountType: models.DiscountType(req.DiscountType),
		Value:        req.Value,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
		IsActive:     isActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Delete handles DELETE /admin/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type validateCouponRequest struct {
	Code  string  `json:"code" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

// Validate handles POST /coupons/validate
func (h *CouponHandler) Validate(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, discounted, err := h.couponService.ValidateCoupon(c.Request.Context(), req.Code, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, services.ErrCouponNotUsable):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon is expired or exhausted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coupon":          coupon,
		"discountedPrice": discounted,
	})
}
