package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tokenbank/internal/domain"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.User{}, &domain.Transaction{}))
	return NewGorm(gdb)
}

func TestGormStoreUpsert(t *testing.T) {
	s := newTestGormStore(t)

	u := domain.User{Username: "alice", Bank: "bankA", Balance: 0, JoinedAt: "2026-08-28 12:00:00"}
	require.NoError(t, s.UpsertUser(u))
	u.Balance = 100
	require.NoError(t, s.UpsertUser(u))

	users, _, err := s.Load()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 100.0, users[0].Balance)
	assert.Equal(t, "bankA", users[0].Bank)
}

func TestGormStoreTransactionOrder(t *testing.T) {
	s := newTestGormStore(t)

	for i, id := range []string{"tx-1", "tx-2", "tx-3"} {
		tx := domain.Transaction{
			ID: id, From: domain.SystemAccount, To: "alice",
			Amount: float64(i + 1), Type: domain.TxTypeMint,
			Timestamp: "2026-08-28 12:00:00",
			// Distinct insertion stamps; rapid appends can otherwise land in
			// the same millisecond.
			CreatedAt: int64(i + 1),
		}
		require.NoError(t, s.AppendTransaction(tx))
	}

	_, txs, err := s.Load()
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "tx-3", txs[2].ID)
}
