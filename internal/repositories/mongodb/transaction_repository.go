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

// TransactionRepository implements repositories.TransactionRepository on
// MongoDB.
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a MongoDB-backed transaction repository.
func NewTransactionRepository(db *mongo.Database) repositories.TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("balance_transactions"),
	}
}

// Create appends a balance transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	tx.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, tx)
	if err != nil {
		return err
	}
	tx.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUser returns a user's transactions, newest first.
func (r *TransactionRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BalanceTransaction, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.BalanceTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.BalanceTransaction{}
	}
	return txs, nil
}
