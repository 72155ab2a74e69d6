package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/omen/app"
	"github.com/joefazee/omen/app/api"
	"github.com/joefazee/omen/app/database"
	"github.com/joefazee/omen/app/ledger"
	"github.com/joefazee/omen/app/markets"
	"github.com/joefazee/omen/app/trading"
	"github.com/joefazee/omen/app/universe"
	"github.com/joefazee/omen/internal/clock"
	"github.com/joefazee/omen/internal/deps"
	"github.com/joefazee/omen/internal/events"
	"github.com/joefazee/omen/internal/logger"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.MigrateUp(db, "file://migrations", cfg.DB.Database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{
		"service": "omen",
		"env":     cfg.Env,
	})

	container := deps.NewContainer(db, appLogger, clock.New(), events.NewLogEmitter(appLogger))

	marketsCfg := markets.GetDefaultConfig()
	markets.InitRepositories(container, marketsCfg)
	universe.InitRepositories(container)
	ledger.InitRepositories(container)
	trading.InitRepositories(container)

	r := gin.Default()
	r.Use(api.CorsMiddleware())
	r.GET("/healthz", api.HealthCheck)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(api.RequireAccount())

	marketsService := container.GetService(markets.ServiceKey).(markets.Service)
	universe.Init(apiV1, container, marketsService, universe.GetDefaultConfig())
	markets.Mount(apiV1, container)
	ledger.Mount(apiV1, container)
	trading.Mount(apiV1, container)

	appLogger.Info("Starting Omen API server", logger.Fields{
		"host": cfg.AppHost,
		"port": cfg.AppPort,
	})
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
