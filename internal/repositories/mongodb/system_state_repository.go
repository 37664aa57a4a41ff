package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNegativeReserve mirrors the memory implementation's setter guard.
var ErrNegativeReserve = errors.New("reserve fund cannot be negative")

const reserveFundKey = "reserve_fund"

// SystemStateRepository implements repositories.SystemStateRepository on
// MongoDB, storing the reserve fund and admin settings as single documents
// in a system_state collection.
type SystemStateRepository struct {
	collection *mongo.Collection
}

// NewSystemStateRepository creates a MongoDB-backed system state repository.
func NewSystemStateRepository(db *mongo.Database) repositories.SystemStateRepository {
	return &SystemStateRepository{
		collection: db.Collection("system_state"),
	}
}

type reserveDoc struct {
	Key       string    `bson:"key"`
	Amount    float64   `bson:"amount"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GetReserveFund returns the reserve fund balance, zero when unset.
func (r *SystemStateRepository) GetReserveFund(ctx context.Context) (float64, error) {
	var doc reserveDoc
	err := r.collection.FindOne(ctx, bson.M{"key": reserveFundKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.Amount, nil
}

// SetReserveFund replaces the reserve fund balance, rejecting negatives.
func (r *SystemStateRepository) SetReserveFund(ctx context.Context, amount float64) error {
	if amount < 0 {
		return ErrNegativeReserve
	}
	update := bson.M{"$set": reserveDoc{Key: reserveFundKey, Amount: amount, UpdatedAt: time.Now()}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"key": reserveFundKey}, update, opts)
	return err
}

// GetSettings returns the admin settings, defaults when unset.
func (r *SystemStateRepository) GetSettings(ctx context.Context) (*models.AdminSettings, error) {
	var settings models.AdminSettings
	err := r.collection.FindOne(ctx, bson.M{"key": "admin_settings"}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.AdminSettings{IntelligentDrawing: true, UpdatedAt: time.Now()}, nil
		}
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings upserts the admin settings document.
func (r *SystemStateRepository) UpdateSettings(ctx context.Context, settings *models.AdminSettings) error {
	settings.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"key":                "admin_settings",
		"manualSalesStop":    settings.ManualSalesStop,
		"cutoffExemptUsers":  settings.CutoffExemptUsers,
		"blockedCountries":   settings.BlockedCountries,
		"intelligentDrawing": settings.IntelligentDrawing,
		"updatedBy":          settings.UpdatedBy,
		"updatedAt":          settings.UpdatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"key": "admin_settings"}, update, opts)
	return err
}
