package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by all repositories when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// TicketRepository is the ticket ledger. Find methods exclude soft-deleted
// tickets unless stated otherwise; a ticket's drawing never changes.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	FindByDrawing(ctx context.Context, drawingID primitive.ObjectID) ([]*models.Ticket, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error)
	FindPendingJackpot(ctx context.Context) ([]*models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	CountByDrawing(ctx context.Context, drawingID primitive.ObjectID) (int64, error)
}

// DrawingRepository stores drawings. At most one drawing is active.
type DrawingRepository interface {
	Create(ctx context.Context, drawing *models.Drawing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Drawing, error)
	FindActive(ctx context.Context) (*models.Drawing, error)
	FindLatestCompleted(ctx context.Context) (*models.Drawing, error)
	FindAll(ctx context.Context) ([]*models.Drawing, error)
	Update(ctx context.Context, drawing *models.Drawing) error
}

// UserRepository stores player and admin accounts. IncrementBalance must
// be atomic; credits carry no overdraft check (debits are validated by
// the caller before purchase).
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	IncrementBalance(ctx context.Context, id primitive.ObjectID, delta float64) error
}

// CouponRepository stores discount coupons.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindAll(ctx context.Context) ([]*models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SystemStateRepository holds the global reserve fund and admin settings.
// The reserve setter must reject negative amounts.
type SystemStateRepository interface {
	GetReserveFund(ctx context.Context) (float64, error)
	SetReserveFund(ctx context.Context, amount float64) error
	GetSettings(ctx context.Context) (*models.AdminSettings, error)
	UpdateSettings(ctx context.Context, settings *models.AdminSettings) error
}

// TransactionRepository records balance credits and debits.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.BalanceTransaction) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BalanceTransaction, error)
}

// EventRepository is the append-only audit log.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindRecent(ctx context.Context, limit int) ([]*models.Event, error)
	FindByType(ctx context.Context, eventType models.EventType, limit int) ([]*models.Event, error)
}

// JackpotRolloverRepository records jackpot carry-overs between drawings.
type JackpotRolloverRepository interface {
	Create(ctx context.Context, rollover *models.JackpotRollover) error
	FindBySourceDrawing(ctx context.Context, drawingID primitive.ObjectID) (*models.JackpotRollover, error)
	FindSince(ctx context.Context, since time.Time) ([]*models.JackpotRollover, error)
}
