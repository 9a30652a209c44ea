// main.go
package main

import (
	"context"
	"log"
	"time"

	"library-seating/cmd"
	"library-seating/internal/data/repository"
	"library-seating/internal/wire"
	"library-seating/pkg/database"
	"library-seating/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis is optional; without it rate limiting is disabled.
	rdb := database.InitRedis(config.Redis)
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connected successfully")
	} else {
		logger.Warn("Redis unavailable, rate limiting disabled")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Seed the built-in violation rules
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repos.ViolationRule.EnsureDefaults(seedCtx); err != nil {
		logger.Fatal("Failed to seed violation rules", zap.Error(err))
	}

	// Wire all dependencies
	app, err := wire.Wiring(repos, rdb, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	// Launch the violation detector unless disabled
	if config.Detector.AutoStart {
		if err := app.Service.Detector.Start(context.Background(), config.Detector.Interval); err != nil {
			logger.Fatal("Failed to start violation detector", zap.Error(err))
		}
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
