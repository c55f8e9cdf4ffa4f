package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/portfolio-insight/internal/clients/yahoo"
	"github.com/aristath/portfolio-insight/internal/config"
	"github.com/aristath/portfolio-insight/internal/database"
	"github.com/aristath/portfolio-insight/internal/modules/allocation"
	"github.com/aristath/portfolio-insight/internal/modules/market"
	"github.com/aristath/portfolio-insight/internal/modules/portfolio"
	"github.com/aristath/portfolio-insight/internal/modules/risk"
	"github.com/aristath/portfolio-insight/internal/scheduler"
	"github.com/aristath/portfolio-insight/internal/server"
	"github.com/aristath/portfolio-insight/pkg/logger"
)

// historySyncDays covers the longest risk analysis window (2y)
const historySyncDays = 504

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info", Pretty: true})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Portfolio Insight")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Storage for per-symbol daily close history
	historyStore, err := market.NewHistoryStore(cfg.HistoryDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history store")
	}

	// Market data: Yahoo Finance behind a TTL cache
	cache := database.NewReferenceCache(db.Conn())
	marketSvc := market.NewService(yahoo.NewClient(log), cache, historyStore, market.Config{
		QuoteTTL:     cfg.QuoteTTL,
		CountryTTL:   cfg.CountryTTL,
		RiskFreeRate: cfg.RiskFreeRate,
	}, log)

	// Analytics services
	portfolioRepo := portfolio.NewRepository(db.Conn())
	portfolioSvc := portfolio.NewService(portfolioRepo, marketSvc, cfg.HomeCurrency, cfg.RiskFreeRate, log)
	allocationSvc := allocation.NewService(portfolioSvc, marketSvc, log)
	riskSvc := risk.NewService(portfolioSvc, marketSvc, log)

	// Background jobs
	sched := scheduler.New(log)
	refreshQuotes := scheduler.NewRefreshQuotesJob(portfolioSvc, marketSvc, log)
	syncHistory := scheduler.NewSyncHistoryJob(portfolioSvc, marketSvc, historySyncDays, log)
	maintenance := scheduler.NewMaintenanceJob(db, cache, cfg.HistoryDir, log)

	if err := registerJobs(sched, refreshQuotes, syncHistory, maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// System endpoints expose status and manual job triggers
	systemHandlers := server.NewSystemHandlers(db, cfg.HistoryDir, sched, log)

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:       cfg.Port,
		DevMode:    cfg.DevMode,
		Log:        log,
		Portfolio:  portfolio.NewHandler(portfolioSvc, log),
		Allocation: allocation.NewHandler(allocationSvc, log),
		Risk:       risk.NewHandler(riskSvc, log),
		Market:     market.NewHandler(marketSvc, portfolioSvc, log),
		System:     systemHandlers,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(sched *scheduler.Scheduler, refreshQuotes, syncHistory, maintenance scheduler.Job) error {
	// Quotes go stale fast during market hours
	if err := sched.AddJob("0 */5 * * * *", refreshQuotes); err != nil {
		return err
	}

	// One daily bar per day; hourly keeps late listings fresh enough
	if err := sched.AddJob("@hourly", syncHistory); err != nil {
		return err
	}

	// Storage checks and cache purge, nightly
	if err := sched.AddJob("0 0 3 * * *", maintenance); err != nil {
		return err
	}

	return nil
}
