package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl manages accounts, deposits and admin delegation.
type UserServiceImpl struct {
	userRepo repositories.UserRepository
	txRepo   repositories.TransactionRepository
}

// NewUserService creates a UserServiceImpl.
func NewUserService(userRepo repositories.UserRepository, txRepo repositories.TransactionRepository) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo, txRepo: txRepo}
}

// GetUser returns a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Deposit credits a strictly positive amount to the user's balance.
func (s *UserServiceImpl) Deposit(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.User, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.IncrementBalance(ctx, userID, amount); err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}
	_ = s.txRepo.Create(ctx, &models.BalanceTransaction{
		UserID: userID,
		Amount: amount,
		Source: models.SourceDeposit,
	})

	slog.Info("Deposit credited", "userId", userID, "amount", amount)
	return s.GetUser(ctx, userID)
}

// Transactions returns the user's balance history, newest first.
func (s *UserServiceImpl) Transactions(ctx context.Context, userID primitive.ObjectID) ([]*models.BalanceTransaction, error) {
	return s.txRepo.FindByUser(ctx, userID)
}

// GrantAdmin promotes a user to admin. Delegated admins carry the same
// rights as the delegating admin.
func (s *UserServiceImpl) GrantAdmin(ctx context.Context, userID, actorID primitive.ObjectID) (*models.User, error) {
	return s.setRole(ctx, userID, actorID, models.RoleAdmin)
}

// RevokeAdmin demotes an admin back to a regular user.
func (s *UserServiceImpl) RevokeAdmin(ctx context.Context, userID, actorID primitive.ObjectID) (*models.User, error) {
	return s.setRole(ctx, userID, actorID, models.RoleUser)
}

func (s *UserServiceImpl) setRole(ctx context.Context, userID, actorID primitive.ObjectID, role models.Role) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	slog.Info("Role changed", "userId", userID, "role", role, "actorId", actorID)
	return user, nil
}
