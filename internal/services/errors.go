package services

import "errors"

// State-precondition and validation errors surfaced to handlers. These are
// expected conditions, not failures of the settlement pipeline.
var (
	ErrNoActiveDrawing     = errors.New("no active drawing")
	ErrDrawingNotFound     = errors.New("drawing not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSalesClosed         = errors.New("ticket sales are closed for the current drawing")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidNumbers      = errors.New("invalid ticket numbers")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNotPendingJackpot   = errors.New("ticket is not a pending jackpot win")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponNotUsable     = errors.New("coupon is expired or exhausted")
	ErrCouponCodeTaken     = errors.New("coupon code already exists")
)
