// Package cli provides the interactive menu and common initialization
// used by cmd/expenses.
package cli

import (
	"context"
	"io"

	"github.com/joho/godotenv"

	"expenses/internal/amqp"
	"expenses/internal/config"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment, applies
// a ledger path override when non-empty and validates the result.
func LoadAndValidateConfig(ledgerFile string) (*config.Config, error) {
	cfg := config.Load()
	if ledgerFile != "" {
		cfg.LedgerFile = ledgerFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger initializes structured logging at the configured level and
// sets it as the default logger.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	logConfig := applog.DefaultConfig()
	if level, err := applog.ParseLevel(cfg.LogLevel); err == nil {
		logConfig.Level = level
	}
	if out != nil {
		logConfig.Output = out
	}
	logger := applog.New(logConfig)
	applog.SetDefault(logger)
	return logger
}

// NewService wires the ledger store and, when configured, the AMQP publisher.
// A broker that cannot be reached only disables publishing.
func NewService(ctx context.Context, cfg *config.Config, logger *applog.Logger) *services.ExpenseService {
	store := ledger.NewStore(cfg.LedgerFile, ledger.WithLogger(logger))

	var publisher services.EventPublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			logger.InfoContext(ctx, "Initialized AMQP client",
				applog.FieldExchange, cfg.AMQPExchange,
				applog.FieldQueue, cfg.AMQPQueue)
			publisher = client
		}
	}

	logger.DebugContext(ctx, "Ledger ready", applog.FieldPath, cfg.LedgerFile, "amqp_enabled", publisher != nil)
	return services.NewExpenseService(store, publisher, logger)
}
