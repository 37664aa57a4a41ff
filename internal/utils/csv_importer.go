package utils

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
)

// CSVImporter bulk-creates player accounts from a CSV export, typically
// used when migrating an existing player base. Imported accounts get a
// random password and must go through a password reset before login.
type CSVImporter struct {
	userRepo repositories.UserRepository
	txRepo   repositories.TransactionRepository
}

// NewCSVImporter creates a CSVImporter.
func NewCSVImporter(userRepo repositories.UserRepository, txRepo repositories.TransactionRepository) *CSVImporter {
	return &CSVImporter{userRepo: userRepo, txRepo: txRepo}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	TotalRows    int      `json:"totalRows"`
	UsersCreated int      `json:"usersCreated"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"errors"`
}

// ImportUsers reads rows of (email, name, balance) and creates an account
// per row. Rows whose email already exists are skipped; a positive
// starting balance is recorded as a deposit transaction. Column headers
// are matched case-insensitively.
func (i *CSVImporter) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	emailIdx := findColumnIndex(header, []string{"email", "e-mail"})
	nameIdx := findColumnIndex(header, []string{"name", "full name"})
	balanceIdx := findColumnIndex(header, []string{"balance", "starting balance", "credit"})
	if emailIdx == -1 {
		return nil, fmt.Errorf("email column not found in CSV")
	}

	result := &ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", result.TotalRows+2, err))
			continue
		}
		result.TotalRows++

		email := strings.ToLower(strings.TrimSpace(row[emailIdx]))
		if email == "" {
			result.Skipped++
			continue
		}
		if _, err := i.userRepo.FindByEmail(ctx, email); err == nil {
			result.Skipped++
			continue
		}

		name := email
		if nameIdx != -1 && strings.TrimSpace(row[nameIdx]) != "" {
			name = strings.TrimSpace(row[nameIdx])
		}
		balance := 0.0
		if balanceIdx != -1 {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(row[balanceIdx]), 64); err == nil && parsed > 0 {
				balance = parsed
			}
		}

		password, err := GenerateRandomString(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			Email:    email,
			Name:     name,
			Password: string(hashed),
			Role:     models.RoleUser,
			Balance:  balance,
		}
		if err := i.userRepo.Create(ctx, user); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", email, err))
			continue
		}
		if balance > 0 {
			_ = i.txRepo.Create(ctx, &models.BalanceTransaction{
				UserID: user.ID,
				Amount: balance,
				Source: models.SourceDeposit,
				Note:   "imported starting balance",
			})
		}
		result.UsersCreated++
	}
	return result, nil
}

// findColumnIndex locates the first header cell matching any of the
// candidate names, case-insensitively.
func findColumnIndex(header []string, candidates []string) int {
	for idx, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, candidate := range candidates {
			if cell == candidate {
				return idx
			}
		}
	}
	return -1
}
