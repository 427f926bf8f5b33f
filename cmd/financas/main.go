package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/amqp"
	"financas/internal/config"
	"financas/internal/core"
	apphttp "financas/internal/http"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a broker the API still works, only the
	// export sync is skipped.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, export sync disabled", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	classifier, err := services.GetClassifier(cfg.ClassifierStrategy)
	if err != nil {
		logger.Error("Failed to initialize classifier", "error", err, "strategy", cfg.ClassifierStrategy)
		os.Exit(1)
	}

	alertCfg := services.DefaultAlertConfig()
	alertCfg.CardMethodName = cfg.CardMethodName
	alertCfg.CardCeiling = core.Money{Cents: cfg.CardCeilingCents}
	alertCfg.HighBalanceMin = core.Money{Cents: cfg.HighBalanceMinCents}
	alertCfg.MediumBalanceMin = core.Money{Cents: cfg.MediumBalanceMinCents}

	transactions := services.NewTransactionService(repo, amqpClient, classifier)
	purchases := services.NewPurchaseService(repo)
	reports := services.NewReportService(repo, alertCfg)

	srv := apphttp.NewServer(":"+cfg.Port, repo, transactions, purchases, reports)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting financas server",
		"port", cfg.Port,
		"db", cfg.SQLiteDBPath,
		"classifier", cfg.ClassifierStrategy)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
