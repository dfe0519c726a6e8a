// Package ledger holds the token-ledger core: users keyed by username, an
// append-only transaction log, and the join/mint/transfer/query operations.
// All state lives in memory behind a single RWMutex and every mutation is
// written through the injected Store before it becomes visible, so two
// concurrent transfers can never both spend the same balance.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tokenbank/internal/domain"
)

// historyLimit caps the number of records returned by Transactions.
const historyLimit = 10

// Store is the persistence backend behind the ledger. Users are written as
// keyed upserts, transactions as appends to a log; Load is called once at
// startup to rebuild the in-memory state.
type Store interface {
	Load() ([]domain.User, []domain.Transaction, error)
	UpsertUser(u domain.User) error
	AppendTransaction(tx domain.Transaction) error
}

// Stats is the aggregate view over all users.
type Stats struct {
	BankStats   map[string]int `json:"bank_stats"`   // Bank label -> member count
	TotalUsers  int            `json:"total_users"`  // Number of users
	TotalTokens float64        `json:"total_tokens"` // Sum of all balances
}

// Ledger is the single mutable component of the service.
type Ledger struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	txs   []domain.Transaction
	store Store
	now   func() time.Time // Injectable clock for tests
}

// New rebuilds the ledger from the store.
func New(store Store) (*Ledger, error) {
	users, txs, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger state: %w", err)
	}
	l := &Ledger{
		users: make(map[string]*domain.User, len(users)),
		txs:   txs,
		store: store,
		now:   time.Now,
	}
	for i := range users {
		u := users[i]
		l.users[u.Username] = &u
	}
	return l, nil
}

// timestamp formats the current time in the ledger's sortable layout.
func (l *Ledger) timestamp() string {
	return l.now().Format(domain.TimeLayout)
}

// Join creates a user with a zero balance. Joining again with an existing
// username is a no-op that reports existing=true; the stored bank label is
// kept even when a different one is supplied on the repeat join.
func (l *Ledger) Join(username, bank string) (existing bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.users[username]; ok {
		return true, nil
	}

	u := domain.User{
		Username: username,
		Bank:     bank,
		Balance:  0,
		JoinedAt: l.timestamp(),
	}
	if err := l.store.UpsertUser(u); err != nil {
		return false, fmt.Errorf("persist user %q: %w", username, err)
	}
	l.users[username] = &u
	return false, nil
}

// Mint adds amount to the user's balance and records a mint transaction from
// the system account. There is no positivity check on amount: a negative
// mint decreases the balance, matching the service's historical behavior.
func (l *Ledger) Mint(username string, amount float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[username]
	if !ok {
		return 0, ErrUserNotFound
	}

	updated := *u
	updated.Balance += amount
	tx := domain.Transaction{
		ID:        uuid.NewString(),
		From:      domain.SystemAccount,
		To:        username,
		Amount:    amount,
		Type:      domain.TxTypeMint,
		Timestamp: l.timestamp(),
	}

	if err := l.store.UpsertUser(updated); err != nil {
		return 0, fmt.Errorf("persist user %q: %w", username, err)
	}
	if err := l.store.AppendTransaction(tx); err != nil {
		return 0, fmt.Errorf("persist transaction: %w", err)
	}

	u.Balance = updated.Balance
	l.txs = append(l.txs, tx)
	return u.Balance, nil
}

// Transfer moves amount from one user to another. Checks run in a fixed
// order (sender exists, recipient exists, sufficient balance) and only the
// first failure is reported. A self-transfer succeeds and still logs a
// transaction.
func (l *Ledger) Transfer(from, to string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sender, ok := l.users[from]
	if !ok {
		return ErrSenderNotFound
	}
	recipient, ok := l.users[to]
	if !ok {
		return ErrRecipientNotFound
	}
	if sender.Balance < amount {
		return ErrInsufficientBalance
	}

	debited := *sender
	debited.Balance -= amount
	credited := *recipient
	credited.Balance += amount
	if from == to {
		// Self-transfer: debit and credit land on the same record.
		credited = *sender
	}
	tx := domain.Transaction{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Amount:    amount,
		Type:      domain.TxTypeTransfer,
		Timestamp: l.timestamp(),
	}

	if err := l.store.UpsertUser(debited); err != nil {
		return fmt.Errorf("persist user %q: %w", from, err)
	}
	if err := l.store.UpsertUser(credited); err != nil {
		return fmt.Errorf("persist user %q: %w", to, err)
	}
	if err := l.store.AppendTransaction(tx); err != nil {
		return fmt.Errorf("persist transaction: %w", err)
	}

	sender.Balance = debited.Balance
	recipient.Balance = credited.Balance
	l.txs = append(l.txs, tx)
	return nil
}

// Balance reports a user's balance. Unknown users report 0 with found=false;
// the flag is the only way to tell "not found" from "zero balance".
func (l *Ledger) Balance(username string) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u, ok := l.users[username]
	if !ok {
		return 0, false
	}
	return u.Balance, true
}

// Stats aggregates membership counts per bank plus user and token totals.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Stats{BankStats: make(map[string]int)}
	for _, u := range l.users {
		s.BankStats[u.Bank]++
		s.TotalUsers++
		s.TotalTokens += u.Balance
	}
	return s
}

// Transactions returns the user's most recent transactions, newest first,
// capped at historyLimit. The sort is stable on the string timestamps, so
// records within the same second keep their append order.
func (l *Ledger) Transactions(username string) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matches := make([]domain.Transaction, 0)
	for _, tx := range l.txs {
		if tx.From == username || tx.To == username {
			matches = append(matches, tx)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp > matches[j].Timestamp
	})
	if len(matches) > historyLimit {
		matches = matches[:historyLimit]
	}
	return matches
}

// Users returns every user, sorted by username for a stable response order.
func (l *Ledger) Users() []domain.User {
	l.mu.RLock()
	defer l.mu.RUnlock()

	users := make([]domain.User, 0, len(l.users))
	for _, u := range l.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}
