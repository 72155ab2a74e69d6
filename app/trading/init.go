package trading

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/omen/internal/deps"
)

const (
	RepoKey    = "trading_repository"
	ServiceKey = "trading_service"
)

// InitRepositories initializes and registers repositories and services for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)

	srv := NewService(repo, NewTxManager(container.DB, repo), container.Emitter)
	container.RegisterService(ServiceKey, srv)
}

// Mount mounts the settlement routes.
func Mount(r *gin.RouterGroup, container *deps.Container) {
	srv := container.GetService(ServiceKey).(Service)
	handler := NewHandler(srv, container.Logger)

	group := r.Group("/markets")
	group.POST("/:id/complete-sets/buy", handler.BuyCompleteSets)
	group.POST("/:id/complete-sets/sell", handler.SellCompleteSets)
	group.POST("/:id/proceeds/claim", handler.ClaimTradingProceeds)
}
