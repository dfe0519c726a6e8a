package domain

// TimeLayout is the timestamp format for joined_at and transaction
// timestamps. Lexicographic order equals chronological order, which the
// transaction history sort relies on.
const TimeLayout = "2006-01-02 15:04:05"

// User Model
type User struct {
	Username string  `json:"username" gorm:"primaryKey"`        // Unique username, the ledger key
	Bank     string  `json:"bank" gorm:"not null"`              // Free-form bank label chosen at join time
	Balance  float64 `json:"balance" gorm:"not null;default:0"` // Token balance, mutated only by mint/transfer
	JoinedAt string  `json:"joined_at"`                         // Set once at creation, immutable
}
