// Package api wires the ledger to the HTTP surface. Every domain outcome,
// success or failure, is an HTTP 200 with a success flag; callers must
// inspect the flag, not the status code. Only persistence faults produce a
// non-200 response.
package api

import (
	"context"  // Context for cache operations
	"errors"   // Sentinel error matching
	"fmt"      // Response messages
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"tokenbank/internal/cache"
	"tokenbank/internal/domain"
	"tokenbank/internal/ledger"
)

// Cache keys for the read endpoints.
const (
	statsKey    = "stats"     // Bank statistics
	allUsersKey = "users:all" // Full user list
)

func balanceKey(username string) string {
	return "balance:" + username
}

func txKey(username string) string {
	return "txs:" + username
}

// invalidateUser drops every cached read that a mutation touching username
// could have gone stale: the user's balance and history plus the aggregates.
func invalidateUser(ctx context.Context, ca *cache.Cache, usernames ...string) {
	keys := []string{statsKey, allUsersKey}
	for _, u := range usernames {
		keys = append(keys, balanceKey(u), txKey(u))
	}
	if err := ca.Invalidate(ctx, keys...); err != nil {
		logrus.WithField("error", err.Error()).Warn("Cache invalidation failed")
	}
}

// JoinBankRequest represents a join request
type JoinBankRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Bank     string `json:"bank" binding:"required"`     // Bank label must be provided
}

// JoinBankHandler registers a user with a bank. Joining again with an
// existing username is a welcome-back no-op.
func JoinBankHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinBankRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Domain failures keep HTTP 200; the success flag carries the outcome.
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Username and bank required"})
			return
		}
		existing, err := l.Join(req.Username, req.Bank)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": req.Username,
				"error":    err.Error(),
			}).Error("Join failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join bank"})
			return
		}
		if existing {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Welcome back, %s!", req.Username)})
			return
		}
		logrus.WithFields(logrus.Fields{
			"username": req.Username,
			"bank":     req.Bank,
		}).Info("User joined bank")
		invalidateUser(c.Request.Context(), ca, req.Username)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Successfully joined %s!", req.Bank)})
	}
}

// MintTokensRequest represents a mint request. The required binding rejects
// a zero amount, matching the legacy falsy-amount check; negative amounts
// pass through untouched.
type MintTokensRequest struct {
	Username string  `json:"username" binding:"required"` // Username must be provided
	Amount   float64 `json:"amount" binding:"required"`   // Amount must be provided and non-zero
}

// MintTokensHandler credits freshly minted tokens to a user.
func MintTokensHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MintTokensRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Username and amount required"})
			return
		}
		newBalance, err := l.Mint(req.Username, req.Amount)
		if errors.Is(err, ledger.ErrUserNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "User not found"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": req.Username,
				"amount":   req.Amount,
				"error":    err.Error(),
			}).Error("Mint failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mint tokens"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"username": req.Username,
			"amount":   req.Amount,
			"type":     domain.TxTypeMint,
		}).Info("Mint transaction")
		invalidateUser(c.Request.Context(), ca, req.Username)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     fmt.Sprintf("Minted %v tokens", req.Amount),
			"new_balance": newBalance,
		})
	}
}

// TransferTokensRequest represents a transfer request
type TransferTokensRequest struct {
	FromUser string  `json:"from_user" binding:"required"` // Sender username
	ToUser   string  `json:"to_user" binding:"required"`   // Recipient username
	Amount   float64 `json:"amount" binding:"required"`    // Amount must be provided and non-zero
}

// TransferTokensHandler moves tokens between users. Failure checks run in a
// fixed order and only the first one is reported.
func TransferTokensHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransferTokensRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "All fields required"})
			return
		}
		err := l.Transfer(req.FromUser, req.ToUser, req.Amount)
		switch {
		case errors.Is(err, ledger.ErrSenderNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Sender not found"})
			return
		case errors.Is(err, ledger.ErrRecipientNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Recipient not found"})
			return
		case errors.Is(err, ledger.ErrInsufficientBalance):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Insufficient balance"})
			return
		case err != nil:
			logrus.WithFields(logrus.Fields{
				"from_user": req.FromUser,
				"to_user":   req.ToUser,
				"amount":    req.Amount,
				"error":     err.Error(),
			}).Error("Transfer failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer tokens"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"from_user": req.FromUser,
			"to_user":   req.ToUser,
			"amount":    req.Amount,
			"type":      domain.TxTypeTransfer,
		}).Info("Transfer transaction")
		invalidateUser(c.Request.Context(), ca, req.FromUser, req.ToUser)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Transferred %v tokens to %s", req.Amount, req.ToUser),
		})
	}
}

// balanceResponse is the get_balance body; unknown users report success
// false with a zero balance.
type balanceResponse struct {
	Success bool    `json:"success"`
	Balance float64 `json:"balance"`
}

// GetBalanceHandler reports a user's current balance.
func GetBalanceHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		ctx := c.Request.Context()
		key := balanceKey(username)

		var resp balanceResponse
		if found, err := ca.Get(ctx, key, &resp); err == nil && found {
			c.JSON(http.StatusOK, resp)
			return
		}
		balance, ok := l.Balance(username)
		resp = balanceResponse{Success: ok, Balance: balance}
		_ = ca.Set(ctx, key, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// bankStatsResponse is the get_bank_stats body.
type bankStatsResponse struct {
	Success     bool           `json:"success"`
	BankStats   map[string]int `json:"bank_stats"`
	TotalUsers  int            `json:"total_users"`
	TotalTokens float64        `json:"total_tokens"`
}

// GetBankStatsHandler aggregates membership and token totals per bank.
func GetBankStatsHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var resp bankStatsResponse
		if found, err := ca.Get(ctx, statsKey, &resp); err == nil && found {
			c.JSON(http.StatusOK, resp)
			return
		}
		stats := l.Stats()
		resp = bankStatsResponse{
			Success:     true,
			BankStats:   stats.BankStats,
			TotalUsers:  stats.TotalUsers,
			TotalTokens: stats.TotalTokens,
		}
		_ = ca.Set(ctx, statsKey, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// transactionsResponse is the get_transactions body: at most the ten newest
// records touching the user.
type transactionsResponse struct {
	Success      bool                 `json:"success"`
	Transactions []domain.Transaction `json:"transactions"`
}

// GetTransactionsHandler returns a user's recent transaction history.
func GetTransactionsHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		ctx := c.Request.Context()
		key := txKey(username)

		var resp transactionsResponse
		if found, err := ca.Get(ctx, key, &resp); err == nil && found {
			c.JSON(http.StatusOK, resp)
			return
		}
		resp = transactionsResponse{Success: true, Transactions: l.Transactions(username)}
		_ = ca.Set(ctx, key, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// usersResponse is the get_all_users body.
type usersResponse struct {
	Success bool          `json:"success"`
	Users   []domain.User `json:"users"`
}

// GetAllUsersHandler returns every user as a flat record.
func GetAllUsersHandler(l *ledger.Ledger, ca *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var resp usersResponse
		if found, err := ca.Get(ctx, allUsersKey, &resp); err == nil && found {
			c.JSON(http.StatusOK, resp)
			return
		}
		resp = usersResponse{Success: true, Users: l.Users()}
		_ = ca.Set(ctx, allUsersKey, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// HealthHandler reports liveness; it performs no dependency checks.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	}
}
