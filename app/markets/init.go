package markets

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/omen/internal/deps"
)

const (
	RepoKey    = "markets_repository"
	ServiceKey = "markets_service"
)

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container, cfg *Config) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}

	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, NewTxManager(container.DB, repo), cfg, container.Clock, container.Emitter)
	container.RegisterService(ServiceKey, srv)
}

// Mount mounts the market lifecycle routes.
func Mount(r *gin.RouterGroup, container *deps.Container) {
	srv := container.GetService(ServiceKey).(Service)
	handler := NewHandler(srv)

	group := r.Group("/markets")
	group.GET("/:id", handler.GetMarket)
	group.POST("/:id/resolve", handler.Resolve)
	group.POST("/:id/transfer-ownership", handler.TransferOwnership)
	group.GET("/:id/mailbox", handler.GetMailbox)
	group.POST("/:id/mailbox/transfer-ownership", handler.TransferMailbox)
	group.POST("/:id/mailbox/withdraw", handler.WithdrawMailbox)
}
