package api

import (
	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework

	"tokenbank/internal/cache"
	"tokenbank/internal/ledger"
	"tokenbank/internal/middleware"
)

// NewRouter builds the gin engine with all ledger routes. Cross-origin
// requests are allowed from any origin.
func NewRouter(l *ledger.Ledger, ca *cache.Cache) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), cors.Default())

	r.POST("/join_bank", JoinBankHandler(l, ca))                       // Register a user with a bank
	r.POST("/mint_tokens", MintTokensHandler(l, ca))                   // Credit minted tokens
	r.POST("/transfer_tokens", TransferTokensHandler(l, ca))           // Move tokens between users
	r.GET("/get_balance/:username", GetBalanceHandler(l, ca))          // Current balance
	r.GET("/get_bank_stats", GetBankStatsHandler(l, ca))               // Aggregate statistics
	r.GET("/get_transactions/:username", GetTransactionsHandler(l, ca)) // Recent history
	r.GET("/get_all_users", GetAllUsersHandler(l, ca))                 // Full user list
	r.GET("/health", HealthHandler())                                  // Liveness probe

	return r
}
