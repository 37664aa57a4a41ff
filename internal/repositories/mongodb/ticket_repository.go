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

// TicketRepository implements repositories.TicketRepository on MongoDB.
type TicketRepository struct {
	collection *mongo.Collection
}

// NewTicketRepository creates a MongoDB-backed ticket repository.
func NewTicketRepository(db *mongo.Database) repositories.TicketRepository {
	return &TicketRepository{
		collection: db.Collection("tickets"),
	}
}

// Create inserts a new ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	res, err := r.collection.InsertOne(ctx, ticket)
	if err != nil {
		return err
	}
	ticket.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a ticket by ID, tombstones included.
func (r *TicketRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) find(ctx context.Context, filter bson.M) ([]*models.Ticket, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}

// FindByDrawing returns the non-deleted tickets of a drawing.
func (r *TicketRepository) FindByDrawing(ctx context.Context, drawingID primitive.ObjectID) ([]*models.Ticket, error) {
	return r.find(ctx, bson.M{"drawingId": drawingID, "deleted": false})
}

// FindByUser returns the non-deleted tickets of a user.
func (r *TicketRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	return r.find(ctx, bson.M{"userId": userID, "deleted": false})
}

// FindPendingJackpot returns class-1 winners awaiting admin approval.
func (r *TicketRepository) FindPendingJackpot(ctx context.Context) ([]*models.Ticket, error) {
	return r.find(ctx, bson.M{
		"deleted":         false,
		"isWinner":        true,
		"winningClass":    1,
		"jackpotApproval": models.ApprovalPending,
	})
}

// Update replaces a stored ticket.
func (r *TicketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	ticket.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": ticket.ID}, ticket)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// CountByDrawing counts the non-deleted tickets of a drawing.
func (r *TicketRepository) CountByDrawing(ctx context.Context, drawingID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"drawingId": drawingID, "deleted": false})
}
