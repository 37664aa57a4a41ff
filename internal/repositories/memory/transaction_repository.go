package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionRepository is the in-memory balance transaction log.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions []*models.BalanceTransaction
}

// NewTransactionRepository creates an empty in-memory transaction log.
func NewTransactionRepository() repositories.TransactionRepository {
	return &TransactionRepository{}
}

// Create appends a balance transaction record.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	tx.CreatedAt = time.Now()
	clone := *tx
	r.transactions = append(r.transactions, &clone)
	return nil
}

// FindByUser returns a user's transactions, newest first.
func (r *TransactionRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BalanceTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.BalanceTransaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].UserID == userID {
			clone := *r.transactions[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}
