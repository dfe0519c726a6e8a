package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tokenbank/internal/domain"
)

// GormStore persists the ledger in a relational database through gorm.
// It backs the sqlite and mysql store drivers.
type GormStore struct {
	db *gorm.DB
}

// NewGorm wraps an open gorm connection.
func NewGorm(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load reads all users and the transaction log, oldest transaction first.
func (s *GormStore) Load() ([]domain.User, []domain.Transaction, error) {
	var users []domain.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, nil, fmt.Errorf("load users: %w", err)
	}
	var txs []domain.Transaction
	if err := s.db.Order("created_at").Find(&txs).Error; err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	return users, txs, nil
}

// UpsertUser inserts the user or updates the existing row by username.
func (s *GormStore) UpsertUser(u domain.User) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		UpdateAll: true,
	}).Create(&u).Error
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// AppendTransaction inserts one transaction row.
func (s *GormStore) AppendTransaction(tx domain.Transaction) error {
	if err := s.db.Create(&tx).Error; err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}
