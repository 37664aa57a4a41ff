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

// DrawingRepository is the in-memory drawing store.
type DrawingRepository struct {
	mu       sync.RWMutex
	drawings map[primitive.ObjectID]*models.Drawing
}

// NewDrawingRepository creates an empty in-memory drawing repository.
func NewDrawingRepository() repositories.DrawingRepository {
	return &DrawingRepository{
		drawings: make(map[primitive.ObjectID]*models.Drawing),
	}
}

func cloneDrawing(d *models.Drawing) *models.Drawing {
	c := *d
	c.MainNumbers = append([]int(nil), d.MainNumbers...)
	c.WorldNumbers = append([]int(nil), d.WorldNumbers...)
	if d.WinnersByClass != nil {
		c.WinnersByClass = make(map[int]int, len(d.WinnersByClass))
		for class, count := range d.WinnersByClass {
			c.WinnersByClass[class] = count
		}
	}
	return &c
}

// Create stores a new drawing, assigning its ID and timestamps.
func (r *DrawingRepository) Create(ctx context.Context, drawing *models.Drawing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if drawing.ID.IsZero() {
		drawing.ID = primitive.NewObjectID()
	}
	drawing.CreatedAt = time.Now()
	drawing.UpdatedAt = drawing.CreatedAt
	r.drawings[drawing.ID] = cloneDrawing(drawing)
	return nil
}

// FindByID finds a drawing by ID.
func (r *DrawingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Drawing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drawing, ok := r.drawings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneDrawing(drawing), nil
}

// FindActive returns the single active drawing, or ErrNotFound.
func (r *DrawingRepository) FindActive(ctx context.Context) (*models.Drawing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.drawings {
		if d.IsActive {
			return cloneDrawing(d), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindLatestCompleted returns the most recently settled drawing.
func (r *DrawingRepository) FindLatestCompleted(ctx context.Context) (*models.Drawing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Drawing
	for _, d := range r.drawings {
		if d.IsActive || !d.Drawn() {
			continue
		}
		if latest == nil || d.Date.After(latest.Date) {
			latest = d
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return cloneDrawing(latest), nil
}

// FindAll returns all drawings, newest first.
func (r *DrawingRepository) FindAll(ctx context.Context) ([]*models.Drawing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Drawing, 0, len(r.drawings))
	for _, d := range r.drawings {
		result = append(result, cloneDrawing(d))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Update replaces a stored drawing.
func (r *DrawingRepository) Update(ctx context.Context, drawing *models.Drawing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drawings[drawing.ID]; !ok {
		return repositories.ErrNotFound
	}
	drawing.UpdatedAt = time.Now()
	r.drawings[drawing.ID] = cloneDrawing(drawing)
	return nil
}
