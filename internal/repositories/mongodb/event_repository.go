package mongodb

import (
	"context"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository implements repositories.EventRepository on MongoDB.
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a MongoDB-backed event repository.
func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// Create appends an audit event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return err
	}
	event.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindRecent returns the newest events, up to limit.
func (r *EventRepository) FindRecent(ctx context.Context, limit int) ([]*models.Event, error) {
	return r.find(ctx, bson.M{}, limit)
}

// FindByType returns the newest events of one type, up to limit.
func (r *EventRepository) FindByType(ctx context.Context, eventType models.EventType, limit int) ([]*models.Event, error) {
	return r.find(ctx, bson.M{"type": eventType}, limit)
}

func (r *EventRepository) find(ctx context.Context, filter bson.M, limit int) ([]*models.Event, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}
