package ledger

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/omen/internal/deps"
)

const (
	RepoKey    = "ledger_repository"
	ServiceKey = "ledger_service"
)

// Mount mounts the ledger routes. All routes require a resolved caller
// account.
func Mount(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	ledgerGroup := r.Group("/ledger")
	ledgerGroup.POST("/deposit", handler.Deposit)
	ledgerGroup.POST("/withdraw", handler.Withdraw)
	ledgerGroup.POST("/transfer", handler.Transfer)
	ledgerGroup.POST("/approve", handler.Approve)
	ledgerGroup.GET("/balances/:currency", handler.GetBalance)
	ledgerGroup.GET("/accounts/:id/transactions", handler.GetTransactions)
}

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, NewTxManager(container.DB, repo))
	container.RegisterService(ServiceKey, srv)
}

func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
