package services

import (
	"context"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LotteryService owns the drawing lifecycle, the ticket ledger, the
// jackpot approval workflow and the reserve fund.
type LotteryService interface {
	CurrentDrawing(ctx context.Context) (*models.Drawing, error)
	LatestCompletedDrawing(ctx context.Context) (*models.Drawing, error)
	GetDrawing(ctx context.Context, id primitive.ObjectID) (*models.Drawing, error)
	ListDrawings(ctx context.Context) ([]*models.Drawing, error)
	EnsureActiveDrawing(ctx context.Context) (*models.Drawing, error)
	JackpotStatus(ctx context.Context) (*models.JackpotStatus, error)
	SetSimulatedJackpot(ctx context.Context, amount float64) (*models.Drawing, error)
	RolloverHistory(ctx context.Context, since time.Time) ([]*models.JackpotRollover, error)

	CreateTicket(ctx context.Context, userID primitive.ObjectID, mainNumbers, worldNumbers []int, couponCode string) (*models.Ticket, error)
	CreateMultipleTickets(ctx context.Context, userID primitive.ObjectID, mainNumbers, worldNumbers []int, quantity int, quicktipp bool, couponCode string) ([]*models.Ticket, error)
	TicketsForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error)
	TicketsForDrawing(ctx context.Context, drawingID primitive.ObjectID) ([]*models.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID primitive.ObjectID) (bool, error)
	DeleteMultipleTickets(ctx context.Context, ticketIDs []primitive.ObjectID) (int, error)

	PerformDrawing(ctx context.Context, manualMain, manualWorld []int) (*models.Drawing, error)
	PreviewDrawing(ctx context.Context, useIntelligent bool) (*models.DrawingPreview, error)
	RecalculateDrawingStatistics(ctx context.Context, drawingID primitive.ObjectID) error

	PendingJackpotWinners(ctx context.Context) ([]*models.Ticket, error)
	ApproveJackpotWinner(ctx context.Context, ticketID, adminID primitive.ObjectID) (*models.Ticket, error)
	RejectJackpotWinner(ctx context.Context, ticketID, adminID primitive.ObjectID, reason string) (*models.Ticket, error)

	ReserveFund(ctx context.Context) (float64, error)
	SetReserveFund(ctx context.Context, amount float64) error
	AddToReserveFund(ctx context.Context, amount float64) error
}

// AuthService handles registration, login and token issuance.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// UserService manages accounts, balances and admin delegation.
type UserService interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	Deposit(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.User, error)
	Transactions(ctx context.Context, userID primitive.ObjectID) ([]*models.BalanceTransaction, error)
	GrantAdmin(ctx context.Context, userID, actorID primitive.ObjectID) (*models.User, error)
	RevokeAdmin(ctx context.Context, userID, actorID primitive.ObjectID) (*models.User, error)
}

// CouponService manages discount coupons.
type CouponService interface {
	CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]*models.Coupon, error)
	UpdateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id primitive.ObjectID) error
	ValidateCoupon(ctx context.Context, code string, price float64) (*models.Coupon, float64, error)
}

// SettingsService exposes the runtime-mutable administrative knobs.
type SettingsService interface {
	Settings(ctx context.Context) (*models.AdminSettings, error)
	SetManualSalesStop(ctx context.Context, stopped bool, actor string) (*models.AdminSettings, error)
	SetIntelligentDrawing(ctx context.Context, enabled bool, actor string) (*models.AdminSettings, error)
	SetCutoffExemptUsers(ctx context.Context, userIDs []primitive.ObjectID, actor string) (*models.AdminSettings, error)
	SetBlockedCountries(ctx context.Context, countries []string, actor string) (*models.AdminSettings, error)
}
