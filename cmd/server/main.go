package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	api "seva-ledger/internal/api/http"
	"seva-ledger/internal/cache"
	"seva-ledger/internal/config"
	"seva-ledger/internal/logger"
	"seva-ledger/internal/repository/postgres"
	"seva-ledger/internal/security"
	"seva-ledger/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Seva Ledger...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize balance cache
	balances := cache.Noop()
	if cfg.Redis.Enabled {
		client, err := cache.Connect(context.Background(), cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		balances = cache.NewRedisBalanceCache(client, time.Duration(cfg.Redis.BalanceTTLSeconds)*time.Second)
		logger.Info("Balance cache enabled", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Services
	calculator := service.NewRewardCalculator(service.DefaultRewardPolicy())
	ledgerSvc := service.NewLedgerService(store.LedgerRepository, calculator, balances, cfg.Ledger.ConflictRetries)
	stakingSvc := service.NewStakingService(store.StakeRepository, store.WalletRepository, balances, service.StakingLimits{
		MinAmount:     cfg.Staking.MinAmount,
		MinPeriodDays: cfg.Staking.MinPeriodDays,
		MaxPeriodDays: cfg.Staking.MaxPeriodDays,
		MaxRewardRate: cfg.MaxRewardRateDecimal(),
	}, cfg.Ledger.ConflictRetries)
	querySvc := service.NewQueryService(store.WalletRepository, store.TransactionRepository, store.QueryRepository, balances)

	// Initialize HTTP server
	router := api.NewRouter(querySvc, ledgerSvc, stakingSvc, tokenManager)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
