package domain

// SystemAccount is the sentinel sender recorded for mint transactions.
const SystemAccount = "SYSTEM"

// Transaction types
const (
	TxTypeMint     = "mint"     // Tokens created by the system
	TxTypeTransfer = "transfer" // Tokens moved between users
)

// Transaction Model (append-only record)
type Transaction struct {
	ID        string  `json:"id" gorm:"primaryKey"`              // UUID assigned at creation
	From      string  `json:"from" gorm:"column:from_user"`      // Sender username, or SystemAccount for mints
	To        string  `json:"to" gorm:"column:to_user"`          // Recipient username
	Amount    float64 `json:"amount"`                            // Amount of the transaction
	Type      string  `json:"type"`                              // Transaction type: mint, transfer
	Timestamp string  `json:"timestamp"`                         // Creation time in TimeLayout format
	CreatedAt int64   `json:"-" gorm:"autoCreateTime:milli"`     // Insertion order for the database backends
}
