package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movie-booking/cmd"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/wire"
	"movie-booking/pkg/database"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	if config.Database.MigrateOnStart {
		if err := database.Migrate(config.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	var locker lock.Locker
	if config.Redis.Addr != "" {
		rdb, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()

		locker = lock.NewRedis(rdb, config.Booking.LockTTL, config.Booking.LockWait, logger)
		logger.Info("Using redis booking locks", zap.String("addr", config.Redis.Addr))
	} else {
		locker = lock.NewLocal(config.Booking.LockWait)
		logger.Info("REDIS_ADDR not set, using in-process booking locks")
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, locker, config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
