package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JackpotRolloverRepository is the in-memory jackpot carry-over history.
type JackpotRolloverRepository struct {
	mu        sync.RWMutex
	rollovers []*models.JackpotRollover
}

// NewJackpotRolloverRepository creates an empty in-memory rollover history.
func NewJackpotRolloverRepository() repositories.JackpotRolloverRepository {
	return &JackpotRolloverRepository{}
}

// Create appends a rollover record.
func (r *JackpotRolloverRepository) Create(ctx context.Context, rollover *models.JackpotRollover) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rollover.ID.IsZero() {
		rollover.ID = primitive.NewObjectID()
	}
	rollover.CreatedAt = time.Now()
	clone := *rollover
	r.rollovers = append(r.rollovers, &clone)
	return nil
}

// FindBySourceDrawing finds the rollover that left the given drawing.
func (r *JackpotRolloverRepository) FindBySourceDrawing(ctx context.Context, drawingID primitive.ObjectID) (*models.JackpotRollover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ro := range r.rollovers {
		if ro.SourceDrawingID == drawingID {
			clone := *ro
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindSince returns rollovers created at or after the given time, newest first.
func (r *JackpotRolloverRepository) FindSince(ctx context.Context, since time.Time) ([]*models.JackpotRollover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.JackpotRollover
	for i := len(r.rollovers) - 1; i >= 0; i-- {
		if !r.rollovers[i].CreatedAt.Before(since) {
			clone := *r.rollovers[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}
