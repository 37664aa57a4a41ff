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

// DrawingRepository implements repositories.DrawingRepository on MongoDB.
type DrawingRepository struct {
	collection *mongo.Collection
}

// NewDrawingRepository creates a MongoDB-backed drawing repository.
func NewDrawingRepository(db *mongo.Database) repositories.DrawingRepository {
	return &DrawingRepository{
		collection: db.Collection("drawings"),
	}
}

// Create inserts a new drawing.
func (r *DrawingRepository) Create(ctx context.Context, drawing *models.Drawing) error {
	drawing.CreatedAt = time.Now()
	drawing.UpdatedAt = drawing.CreatedAt
	res, err := r.collection.InsertOne(ctx, drawing)
	if err != nil {
		return err
	}
	drawing.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a drawing by ID.
func (r *DrawingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Drawing, error) {
	var drawing models.Drawing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&drawing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &drawing, nil
}

// FindActive returns the single active drawing.
func (r *DrawingRepository) FindActive(ctx context.Context) (*models.Drawing, error) {
	var drawing models.Drawing
	err := r.collection.FindOne(ctx, bson.M{"isActive": true}).Decode(&drawing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &drawing, nil
}

// FindLatestCompleted returns the most recently settled drawing.
func (r *DrawingRepository) FindLatestCompleted(ctx context.Context) (*models.Drawing, error) {
	filter := bson.M{"isActive": false, "mainNumbers.4": bson.M{"$exists": true}}
	opts := options.FindOne().SetSort(bson.M{"date": -1})

	var drawing models.Drawing
	err := r.collection.FindOne(ctx, filter, opts).Decode(&drawing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &drawing, nil
}

// FindAll returns all drawings, newest first.
func (r *DrawingRepository) FindAll(ctx context.Context) ([]*models.Drawing, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var drawings []*models.Drawing
	if err := cursor.All(ctx, &drawings); err != nil {
		return nil, err
	}
	if drawings == nil {
		drawings = []*models.Drawing{}
	}
	return drawings, nil
}

// Update replaces a stored drawing.
func (r *DrawingRepository) Update(ctx context.Context, drawing *models.Drawing) error {
	drawing.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": drawing.ID}, drawing)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
