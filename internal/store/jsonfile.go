// Package store provides the persistence backends behind the ledger: a
// plain-file backend (users document plus an append-only transaction log)
// and a gorm-backed backend for sqlite and mysql.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tokenbank/internal/domain"
)

const (
	usersFile  = "users.json"        // Keyed user records, rewritten atomically on upsert
	txLogFile  = "transactions.log"  // One JSON transaction per line, append-only
	legacyFile = "bank_database.json" // Single-document layout of earlier releases
)

// userRecord is the on-disk shape of a user; the username is the map key in
// users.json rather than a field.
type userRecord struct {
	Bank     string  `json:"bank"`
	Balance  float64 `json:"balance"`
	JoinedAt string  `json:"joined_at"`
}

// legacyDocument is the whole-state file earlier releases rewrote on every
// request. It is read once (if present) to seed the new layout.
type legacyDocument struct {
	Users        map[string]userRecord `json:"users"`
	Transactions []domain.Transaction  `json:"transactions"`
}

// FileStore persists the ledger in a data directory. User upserts rewrite
// users.json through a temp file and rename, so a crash mid-write never
// leaves a corrupt document; transactions are appended one line at a time.
type FileStore struct {
	dir   string
	users map[string]userRecord // Mirror of users.json, kept to rewrite the document on upsert
}

// OpenFile opens (or initializes) the data directory. When the new layout is
// absent but a legacy single-document database exists, it is imported.
func OpenFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{dir: dir, users: make(map[string]userRecord)}

	if _, err := os.Stat(s.path(usersFile)); errors.Is(err, os.ErrNotExist) {
		if err := s.initialize(); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", usersFile, err)
	}
	return s, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// initialize creates an empty users document, importing the legacy database
// first when one is present.
func (s *FileStore) initialize() error {
	raw, err := os.ReadFile(s.path(legacyFile))
	if errors.Is(err, os.ErrNotExist) {
		return s.writeUsers(nil)
	}
	if err != nil {
		return fmt.Errorf("read legacy database: %w", err)
	}

	var doc legacyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode legacy database: %w", err)
	}
	if err := s.writeUsers(doc.Users); err != nil {
		return err
	}
	for _, tx := range doc.Transactions {
		if tx.ID == "" {
			// Legacy records predate transaction IDs.
			tx.ID = uuid.NewString()
		}
		if err := s.AppendTransaction(tx); err != nil {
			return err
		}
	}
	return nil
}

// writeUsers rewrites the users document atomically.
func (s *FileStore) writeUsers(users map[string]userRecord) error {
	if users == nil {
		users = make(map[string]userRecord)
	}
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	tmp := s.path(usersFile + ".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	if err := os.Rename(tmp, s.path(usersFile)); err != nil {
		return fmt.Errorf("replace users: %w", err)
	}
	s.users = users
	return nil
}

// Load reads the users document and replays the transaction log. Log order
// is append order, which the ledger treats as chronological.
func (s *FileStore) Load() ([]domain.User, []domain.Transaction, error) {
	raw, err := os.ReadFile(s.path(usersFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read users: %w", err)
	}
	records := make(map[string]userRecord)
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, nil, fmt.Errorf("decode users: %w", err)
	}
	s.users = records

	users := make([]domain.User, 0, len(records))
	for username, rec := range records {
		users = append(users, domain.User{
			Username: username,
			Bank:     rec.Bank,
			Balance:  rec.Balance,
			JoinedAt: rec.JoinedAt,
		})
	}

	txs, err := s.readLog()
	if err != nil {
		return nil, nil, err
	}
	return users, txs, nil
}

// readLog parses the transaction log line by line.
func (s *FileStore) readLog() ([]domain.Transaction, error) {
	f, err := os.Open(s.path(txLogFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	var txs []domain.Transaction
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tx domain.Transaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction log: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transaction log: %w", err)
	}
	return txs, nil
}

// UpsertUser writes the user into the keyed document.
func (s *FileStore) UpsertUser(u domain.User) error {
	updated := make(map[string]userRecord, len(s.users)+1)
	for k, v := range s.users {
		updated[k] = v
	}
	updated[u.Username] = userRecord{
		Bank:     u.Bank,
		Balance:  u.Balance,
		JoinedAt: u.JoinedAt,
	}
	return s.writeUsers(updated)
}

// AppendTransaction appends one record to the log.
func (s *FileStore) AppendTransaction(tx domain.Transaction) error {
	line, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	f, err := os.OpenFile(s.path(txLogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}
