package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketRepository is the in-memory ticket ledger. Soft-deleted tickets
// stay in the map as tombstones and are excluded from every query.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets map[primitive.ObjectID]*models.Ticket
}

// NewTicketRepository creates an empty in-memory ticket repository.
func NewTicketRepository() repositories.TicketRepository {
	return &TicketRepository{
		tickets: make(map[primitive.ObjectID]*models.Ticket),
	}
}

func cloneTicket(t *models.Ticket) *models.Ticket {
	c := *t
	c.MainNumbers = append([]int(nil), t.MainNumbers...)
	c.WorldNumbers = append([]int(nil), t.WorldNumbers...)
	return &c
}

// Create stores a new ticket, assigning its ID and timestamps.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket.ID.IsZero() {
		ticket.ID = primitive.NewObjectID()
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

// FindByID finds a ticket by ID, including soft-deleted tickets so that
// delete operations can detect repeats.
func (r *TicketRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneTicket(ticket), nil
}

// FindByDrawing returns the non-deleted tickets of a drawing, oldest first.
func (r *TicketRepository) FindByDrawing(ctx context.Context, drawingID primitive.ObjectID) ([]*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Ticket
	for _, t := range r.tickets {
		if t.DrawingID == drawingID && !t.Deleted {
			result = append(result, cloneTicket(t))
		}
	}
	sortTickets(result)
	return result, nil
}

// FindByUser returns the non-deleted tickets of a user, oldest first.
func (r *TicketRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID && !t.Deleted {
			result = append(result, cloneTicket(t))
		}
	}
	sortTickets(result)
	return result, nil
}

// FindPendingJackpot returns non-deleted class-1 winners awaiting approval.
func (r *TicketRepository) FindPendingJackpot(ctx context.Context) ([]*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Ticket
	for _, t := range r.tickets {
		if !t.Deleted && t.IsWinner && t.WinningClass == 1 && t.JackpotApproval == models.ApprovalPending {
			result = append(result, cloneTicket(t))
		}
	}
	sortTickets(result)
	return result, nil
}

// Update replaces a stored ticket. The drawing assignment is immutable.
func (r *TicketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tickets[ticket.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	ticket.DrawingID = existing.DrawingID
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

// CountByDrawing counts the non-deleted tickets of a drawing.
func (r *TicketRepository) CountByDrawing(ctx context.Context, drawingID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, t := range r.tickets {
		if t.DrawingID == drawingID && !t.Deleted {
			n++
		}
	}
	return n, nil
}

func sortTickets(tickets []*models.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID.Hex() < tickets[j].ID.Hex()
		}
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
}
