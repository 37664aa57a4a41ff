package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRepository is the in-memory append-only audit log.
type EventRepository struct {
	mu     sync.RWMutex
	events []*models.Event
}

// NewEventRepository creates an empty in-memory event repository.
func NewEventRepository() repositories.EventRepository {
	return &EventRepository{}
}

// Create appends an audit event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	event.CreatedAt = time.Now()
	clone := *event
	r.events = append(r.events, &clone)
	return nil
}

// FindRecent returns up to limit events, newest first.
func (r *EventRepository) FindRecent(ctx context.Context, limit int) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Event
	for i := len(r.events) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		clone := *r.events[i]
		result = append(result, &clone)
	}
	return result, nil
}

// FindByType returns up to limit events of one type, newest first.
func (r *EventRepository) FindByType(ctx context.Context, eventType models.EventType, limit int) ([]*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Event
	for i := len(r.events) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if r.events[i].Type == eventType {
			clone := *r.events[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}
