package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"woodpecker/internal/api"
	"woodpecker/internal/config"
	"woodpecker/internal/db"
	"woodpecker/internal/jobs"
	"woodpecker/internal/lichess"
	"woodpecker/internal/logger"
	"woodpecker/internal/repository/sqlite"
	"woodpecker/internal/services"
	"woodpecker/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Woodpecker Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("catalog_base_url=%s", cfg.CatalogBaseURL)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("maintenance_worker_count=%d", cfg.MaintenanceWorkerCount)
	log.Debug("maintenance_queue_size=%d", cfg.MaintenanceQueueSize)
	log.Debug("streak_grace_days=%d", cfg.StreakGraceDays)
	log.Debug("weak_miss_threshold=%d", cfg.WeakMissThreshold)
	log.Debug("leaderboard_cache_ttl=%v", cfg.LeaderboardCacheTTL)
	log.Debug("leaderboard_refresh_interval=%v", cfg.LeaderboardRefresh)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	puzzleRepo := sqlite.NewPuzzleRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	setRepo := sqlite.NewSetRepository(database.DB)
	cycleRepo := sqlite.NewCycleRepository(database.DB)
	streakRepo := sqlite.NewStreakRepository(database.DB)
	xpRepo := sqlite.NewXpRepository(database.DB)
	achievementRepo := sqlite.NewAchievementRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Worker pools
	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	maintenancePool := worker.NewPool(cfg.MaintenanceWorkerCount, cfg.MaintenanceQueueSize)

	// Services
	catalogClient := lichess.New(cfg.CatalogBaseURL)
	userService := services.NewUserService(userRepo)
	setService := services.NewSetService(puzzleRepo, setRepo, nil)
	progressService := services.NewProgressService(
		userRepo, puzzleRepo, streakRepo, xpRepo, achievementRepo, statsRepo, cycleRepo,
		cfg.StreakGraceDays, cfg.WeakMissThreshold,
	)
	cycleService := services.NewCycleService(cycleRepo, setRepo, puzzleRepo, userRepo, progressService, cfg.WeakMissThreshold)
	leaderboardService := services.NewLeaderboardService(xpRepo, cfg.LeaderboardCacheTTL, cfg.LeaderboardMaxEntries)
	importService := services.NewImportService(puzzleRepo, catalogClient)

	jobQueue := jobs.NewWorkerQueue(importPool, maintenancePool, importService, leaderboardService)

	srv := &api.Server{
		DB:                 database.DB,
		UserService:        userService,
		SetService:         setService,
		CycleService:       cycleService,
		ProgressService:    progressService,
		LeaderboardService: leaderboardService,
		ImportService:      importService,
		JobQueue:           jobQueue,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)
	maintenancePool.Start(ctx)

	// Keep the cached leaderboards warm.
	go func() {
		ticker := time.NewTicker(cfg.LeaderboardRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := jobQueue.EnqueueLeaderboardRefresh(); err != nil {
					log.Warn("failed to enqueue leaderboard refresh: %v", err)
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping import pool")
	importPool.Stop()
	log.Debug("stopping maintenance pool")
	maintenancePool.Stop()

	log.Info("===========================================")
	log.Info("Woodpecker Server Stopped")
	log.Info("===========================================")
}
