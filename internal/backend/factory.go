package backend

import (
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/services"
	csvstore "financas/internal/storage/csv"
	"financas/internal/storage/memory"
	"financas/internal/storage/sqlite"
)

// Factory creates ledger backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) CreateBackend(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	client := f.createEventClient(config)

	// Assign through a local so a missing broker stays a nil interface,
	// not a non-nil interface wrapping a nil *amqp.Client.
	var events services.EventPublisher
	if client != nil {
		events = client
	}

	switch config.Type {
	case CSVBackend:
		repo := csvstore.NewRepository(config.StorageDir)
		f.logger.Info("Initialized CSV backend",
			"storage_dir", config.StorageDir,
			"amqp_enabled", client != nil)
		return &Result{Repo: repo, Events: events, Cleanup: closeEvents(client)}, nil

	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend",
			"db_path", config.SQLiteDBPath,
			"amqp_enabled", client != nil)
		return &Result{Repo: repo, Events: events, Cleanup: func() error {
			if client != nil {
				client.Close()
			}
			return repo.Close()
		}}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Repo: memory.New(), Events: events, Cleanup: closeEvents(client)}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createEventClient connects to the broker when configured. A broker that
// is down degrades to no audit stream instead of failing startup.
func (f *Factory) createEventClient(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without audit events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func closeEvents(client *amqp.Client) CleanupFunc {
	return func() error {
		if client != nil {
			return client.Close()
		}
		return nil
	}
}
