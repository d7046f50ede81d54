// Package worker implements the audit trail consumer: it drains ledger
// events from the broker and appends them as JSON lines to a local log.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"financas/internal/amqp"
)

// AuditWorker appends every consumed ledger event to an append-only file,
// one JSON object per line.
type AuditWorker struct {
	mu      sync.Mutex
	logPath string
}

func NewAuditWorker(logPath string) *AuditWorker {
	return &AuditWorker{logPath: logPath}
}

// HandleEvent records a single ledger event. It is safe for concurrent use;
// the consumer loop may redeliver, so duplicate lines are acceptable.
func (w *AuditWorker) HandleEvent(event *amqp.LedgerEvent) error {
	line, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("encode audit line: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.logPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}

	slog.Info("Audit event recorded",
		"kind", event.Kind,
		"op", event.Op,
		"record_id", event.RecordID)

	return nil
}

// Run consumes ledger events until the context is cancelled.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	slog.InfoContext(ctx, "Audit worker started", "log_path", w.logPath)
	return client.ConsumeLedgerEvents(ctx, w.HandleEvent)
}
