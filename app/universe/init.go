package universe

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/omen/internal/deps"
)

const (
	RepoKey    = "universe_repository"
	ServiceKey = "universe_service"
)

// InitRepositories initializes and registers repositories for this module
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)
}

// Init wires the universe service and mounts its routes. The initializer is
// supplied by the markets module.
func Init(r *gin.RouterGroup, container *deps.Container, initializer MarketInitializer, cfg *Config) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}

	repo := container.GetRepository(RepoKey).(Repository)
	srv := NewService(repo, initializer, cfg, container.Clock, container.Emitter)
	container.RegisterService(ServiceKey, srv)

	handler := NewHandler(srv)

	group := r.Group("/universes")
	group.POST("", handler.CreateUniverse)
	group.GET("", handler.ListUniverses)
	group.GET("/:id", handler.GetUniverse)
	group.GET("/:id/markets", handler.GetMarkets)
	group.POST("/:id/markets/yes-no", handler.CreateYesNoMarket)
	group.POST("/:id/markets/categorical", handler.CreateCategoricalMarket)
	group.POST("/:id/markets/scalar", handler.CreateScalarMarket)
	group.GET("/:id/contains/markets/:market_id", handler.ContainsMarket)
	group.GET("/:id/contains/share-tokens/:token_id", handler.ContainsShareToken)
}
