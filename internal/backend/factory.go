package backend

import (
	"context"
	"fmt"
	"log/slog"

	"nomina/internal/source/csvhttp"
	gsheet "nomina/internal/source/google"
	"nomina/internal/source/memory"
	"nomina/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend()
	case CSVBackend:
		return f.createCSVBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.NewSeeded()

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Reader:  store,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createCSVBackend(config Config) (*BackendResult, error) {
	client := csvhttp.New(config.CSVUsersURL, config.CSVInvoicesURL, config.CSVProxies)

	f.logger.Info("Initialized CSV export backend",
		"proxies", len(config.CSVProxies))

	return &BackendResult{
		Reader:  client,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*BackendResult, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")

	return &BackendResult{
		Reader:  cli,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Reader:  repo,
		Cleanup: repo.Close,
	}, nil
}
