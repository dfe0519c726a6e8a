package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenbank/internal/domain"
)

func TestFileStoreInitializesEmpty(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenFile(dir)
	require.NoError(t, err)

	users, txs, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, txs)

	// The users document is created eagerly so a later read never fails.
	_, err = os.Stat(filepath.Join(dir, usersFile))
	assert.NoError(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFile(dir)
	require.NoError(t, err)

	alice := domain.User{Username: "alice", Bank: "bankA", Balance: 60, JoinedAt: "2026-08-28 12:00:00"}
	bob := domain.User{Username: "bob", Bank: "bankB", Balance: 40, JoinedAt: "2026-08-28 12:00:01"}
	require.NoError(t, s.UpsertUser(alice))
	require.NoError(t, s.UpsertUser(bob))

	mint := domain.Transaction{ID: "tx-1", From: domain.SystemAccount, To: "alice", Amount: 100, Type: domain.TxTypeMint, Timestamp: "2026-08-28 12:00:02"}
	transfer := domain.Transaction{ID: "tx-2", From: "alice", To: "bob", Amount: 40, Type: domain.TxTypeTransfer, Timestamp: "2026-08-28 12:00:03"}
	require.NoError(t, s.AppendTransaction(mint))
	require.NoError(t, s.AppendTransaction(transfer))

	// Reopen from disk and check everything survived in order.
	reopened, err := OpenFile(dir)
	require.NoError(t, err)
	users, txs, err := reopened.Load()
	require.NoError(t, err)

	require.Len(t, users, 2)
	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	assert.Equal(t, alice, byName["alice"])
	assert.Equal(t, bob, byName["bob"])

	require.Len(t, txs, 2)
	assert.Equal(t, mint, txs[0])
	assert.Equal(t, transfer, txs[1])
}

func TestFileStoreUpsertOverwrites(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFile(dir)
	require.NoError(t, err)

	u := domain.User{Username: "alice", Bank: "bankA", Balance: 0, JoinedAt: "2026-08-28 12:00:00"}
	require.NoError(t, s.UpsertUser(u))
	u.Balance = 250
	require.NoError(t, s.UpsertUser(u))

	users, _, err := s.Load()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 250.0, users[0].Balance)
}

func TestFileStoreNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFile(dir)
	require.NoError(t, err)
	require.NoError(t, s.UpsertUser(domain.User{Username: "alice", Bank: "bankA"}))

	_, err = os.Stat(filepath.Join(dir, usersFile+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreImportsLegacyDatabase(t *testing.T) {
	dir := t.TempDir()

	// Whole-state document as earlier releases wrote it: users keyed by
	// name, transactions without IDs.
	legacy := map[string]any{
		"users": map[string]any{
			"alice": map[string]any{"bank": "bankA", "balance": 60, "joined_at": "2026-08-01 09:00:00"},
			"bob":   map[string]any{"bank": "bankB", "balance": 40, "joined_at": "2026-08-01 09:05:00"},
		},
		"transactions": []map[string]any{
			{"from": "SYSTEM", "to": "alice", "amount": 100, "type": "mint", "timestamp": "2026-08-01 09:10:00"},
			{"from": "alice", "to": "bob", "amount": 40, "type": "transfer", "timestamp": "2026-08-01 09:11:00"},
		},
	}
	raw, err := json.MarshalIndent(legacy, "", "    ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyFile), raw, 0o644))

	s, err := OpenFile(dir)
	require.NoError(t, err)
	users, txs, err := s.Load()
	require.NoError(t, err)

	require.Len(t, users, 2)
	require.Len(t, txs, 2)
	assert.Equal(t, "SYSTEM", txs[0].From)
	assert.Equal(t, "alice", txs[1].From)
	for _, tx := range txs {
		assert.NotEmpty(t, tx.ID, "imported records get IDs assigned")
	}
}
