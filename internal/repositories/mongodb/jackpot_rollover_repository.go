package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JackpotRolloverRepository implements
// repositories.JackpotRolloverRepository on MongoDB.
type JackpotRolloverRepository struct {
	collection *mongo.Collection
}

// NewJackpotRolloverRepository creates a MongoDB-backed rollover repository.
func NewJackpotRolloverRepository(db *mongo.Database) repositories.JackpotRolloverRepository {
	return &JackpotRolloverRepository{
		collection: db.Collection("jackpot_rollovers"),
	}
}

// Create records a rollover.
func (r *JackpotRolloverRepository) Create(ctx context.Context, rollover *models.JackpotRollover) error {
	rollover.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, rollover)
	if err != nil {
		return err
	}
	rollover.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindBySourceDrawing returns the rollover recorded for a settled drawing.
func (r *JackpotRolloverRepository) FindBySourceDrawing(ctx context.Context, drawingID primitive.ObjectID) (*models.JackpotRollover, error) {
	var rollover models.JackpotRollover
	err := r.collection.FindOne(ctx, bson.M{"sourceDrawingId": drawingID}).Decode(&rollover)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &rollover, nil
}

// FindSince returns rollovers recorded at or after the given time, newest first.
func (r *JackpotRolloverRepository) FindSince(ctx context.Context, since time.Time) ([]*models.JackpotRollover, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"createdAt": bson.M{"$gte": since}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rollovers []*models.JackpotRollover
	if err := cursor.All(ctx, &rollovers); err != nil {
		return nil, err
	}
	if rollovers == nil {
		rollovers = []*models.JackpotRollover{}
	}
	return rollovers, nil
}
