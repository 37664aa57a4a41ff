package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottohaus/worldlotto-backend/internal/repositories/memory"
)

func TestImportUsers(t *testing.T) {
	users := memory.NewUserRepository()
	txs := memory.NewTransactionRepository()
	importer := NewCSVImporter(users, txs)
	ctx := context.Background()

	csv := strings.Join([]string{
		"Email,Name,Balance",
		"alice@example.com,Alice,25.50",
		"bob@example.com,Bob,0",
		"alice@example.com,Duplicate,10",
		",Empty,5",
	}, "\n")

	result, err := importer.ImportUsers(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.UsersCreated)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Errors)

	alice, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 25.5, alice.Balance)
	assert.NotEmpty(t, alice.Password)

	aliceTxs, err := txs.FindByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTxs, 1)
	assert.Equal(t, 25.5, aliceTxs[0].Amount)

	bob, err := users.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Zero(t, bob.Balance)
	bobTxs, err := txs.FindByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobTxs, "zero starting balance records no deposit")
}

func TestImportUsersMissingEmailColumn(t *testing.T) {
	importer := NewCSVImporter(memory.NewUserRepository(), memory.NewTransactionRepository())

	_, err := importer.ImportUsers(context.Background(), strings.NewReader("Name,Balance\nAlice,10"))
	assert.Error(t, err)
}
