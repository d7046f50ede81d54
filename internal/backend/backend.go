package backend

import (
	"financas/internal/ledger"
	"financas/internal/services"
)

// Type selects which storage backend backs the ledgers.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type Type

	// CSV backend
	StorageDir string

	// SQLite backend
	SQLiteDBPath string

	// Optional audit stream; empty URL disables it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result bundles the repository, the optional event publisher and cleanup.
// Events is interface-typed so that "no broker" is a genuinely nil publisher:
// storing a nil *amqp.Client here would defeat the services layer's nil check.
type Result struct {
	Repo    ledger.Repository
	Events  services.EventPublisher // nil when no broker is configured
	Cleanup CleanupFunc
}
