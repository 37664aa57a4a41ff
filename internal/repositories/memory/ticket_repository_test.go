package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
)

func TestTicketRepositorySoftDeleteFiltering(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	drawingID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	kept := &models.Ticket{UserID: userID, DrawingID: drawingID, MainNumbers: []int{1, 2, 3, 4, 5}, WorldNumbers: []int{1, 2}}
	gone := &models.Ticket{UserID: userID, DrawingID: drawingID, MainNumbers: []int{6, 7, 8, 9, 10}, WorldNumbers: []int{3, 4}}
	require.NoError(t, repo.Create(ctx, kept))
	require.NoError(t, repo.Create(ctx, gone))

	gone.Deleted = true
	require.NoError(t, repo.Update(ctx, gone))

	byDrawing, err := repo.FindByDrawing(ctx, drawingID)
	require.NoError(t, err)
	require.Len(t, byDrawing, 1)
	assert.Equal(t, kept.ID, byDrawing[0].ID)

	byUser, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	count, err := repo.CountByDrawing(ctx, drawingID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Tombstones stay reachable by ID so deletion can detect repeats.
	tombstone, err := repo.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, tombstone.Deleted)
}

func TestTicketRepositoryDrawingAssignmentImmutable(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	original := primitive.NewObjectID()
	ticket := &models.Ticket{UserID: primitive.NewObjectID(), DrawingID: original, MainNumbers: []int{1, 2, 3, 4, 5}, WorldNumbers: []int{1, 2}}
	require.NoError(t, repo.Create(ctx, ticket))

	ticket.DrawingID = primitive.NewObjectID()
	require.NoError(t, repo.Update(ctx, ticket))

	stored, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, original, stored.DrawingID)
}

func TestTicketRepositoryReturnsClones(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	ticket := &models.Ticket{UserID: primitive.NewObjectID(), DrawingID: primitive.NewObjectID(), MainNumbers: []int{1, 2, 3, 4, 5}, WorldNumbers: []int{1, 2}}
	require.NoError(t, repo.Create(ctx, ticket))

	first, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	first.MainNumbers[0] = 99
	first.IsWinner = true

	second, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, second.MainNumbers)
	assert.False(t, second.IsWinner)
}

func TestTicketRepositoryFindPendingJackpot(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	pending := &models.Ticket{
		UserID: primitive.NewObjectID(), DrawingID: primitive.NewObjectID(),
		MainNumbers: []int{1, 2, 3, 4, 5}, WorldNumbers: []int{1, 2},
		IsWinner: true, WinningClass: 1, JackpotApproval: models.ApprovalPending,
	}
	approved := &models.Ticket{
		UserID: primitive.NewObjectID(), DrawingID: primitive.NewObjectID(),
		MainNumbers: []int{1, 2, 3, 4, 5}, WorldNumbers: []int{1, 2},
		IsWinner: true, WinningClass: 1, JackpotApproval: models.ApprovalApproved,
	}
	regular := &models.Ticket{
		UserID: primitive.NewObjectID(), DrawingID: primitive.NewObjectID(),
		MainNumbers: []int{1, 2, 3, 4, 5}, WorldNumbers: []int{1, 2},
		IsWinner: true, WinningClass: 9,
	}
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, approved))
	require.NoError(t, repo.Create(ctx, regular))

	got, err := repo.FindPendingJackpot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}

func TestTicketRepositoryUnknownID(t *testing.T) {
	repo := NewTicketRepository()

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
