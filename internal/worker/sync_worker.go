// Package worker mirrors the upstream record set into the local
// SQLite snapshot so the dashboard can serve reads when the
// spreadsheet is slow or unreachable.
package worker

import (
	"context"
	"fmt"
	"time"

	"nomina/internal/amqp"
	"nomina/internal/log"
	"nomina/internal/source"
	"nomina/internal/storage"

	"golang.org/x/sync/errgroup"
)

// SyncWorker refreshes the SQLite snapshot from the upstream source
type SyncWorker struct {
	storage  *storage.SQLiteRepository
	upstream source.Reader
	maxAge   time.Duration
	logger   *log.Logger
}

func NewSyncWorker(storage *storage.SQLiteRepository, upstream source.Reader, maxAge time.Duration) *SyncWorker {
	cfg := log.DefaultConfig()
	cfg.Component = log.ComponentWorker
	return &SyncWorker{
		storage:  storage,
		upstream: upstream,
		maxAge:   maxAge,
		logger:   log.New(cfg),
	}
}

// HandleSyncMessage processes a single snapshot sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SnapshotSyncMessage) error {
	w.logger.InfoContext(ctx, "Processing snapshot sync message",
		log.FieldSource, msg.Source,
		"users", msg.UserCount,
		"invoices", msg.InvoiceCount)

	return w.RefreshSnapshot(ctx)
}

// RefreshSnapshot re-fetches the full record set and replaces the
// stored rows. Users and invoices are fetched in parallel; neither
// table is touched when either fetch fails.
func (w *SyncWorker) RefreshSnapshot(ctx context.Context) error {
	var userRows []source.UserRow
	var invoiceRows []source.InvoiceRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := w.upstream.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		userRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := w.upstream.ListInvoices(gctx)
		if err != nil {
			return fmt.Errorf("fetch invoices: %w", err)
		}
		invoiceRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := w.storage.ReplaceUsers(ctx, userRows); err != nil {
		return fmt.Errorf("replace users: %w", err)
	}
	if err := w.storage.ReplaceInvoices(ctx, invoiceRows); err != nil {
		return fmt.Errorf("replace invoices: %w", err)
	}

	w.logger.InfoContext(ctx, "Snapshot refreshed",
		"users", len(userRows),
		"invoices", len(invoiceRows))

	return nil
}

// StartupSyncCheck refreshes the snapshot at worker startup when it
// is missing or older than maxAge. This recovers from missed AMQP
// messages and worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	lastSync, err := w.storage.LastSync(ctx)
	if err != nil {
		return fmt.Errorf("read last sync: %w", err)
	}

	if lastSync.IsZero() {
		w.logger.InfoContext(ctx, "No snapshot found on startup, fetching...")
		return w.RefreshSnapshot(ctx)
	}

	age := time.Since(lastSync)
	if age > w.maxAge {
		w.logger.InfoContext(ctx, "Snapshot is stale, refreshing",
			"last_sync", lastSync.Format(time.RFC3339),
			"age", age.Round(time.Second))
		return w.RefreshSnapshot(ctx)
	}

	w.logger.InfoContext(ctx, "Snapshot is fresh",
		"last_sync", lastSync.Format(time.RFC3339),
		"age", age.Round(time.Second))

	return nil
}

// RunPeriodic refreshes the snapshot on a fixed interval until the
// context is cancelled.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshSnapshot(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic snapshot refresh failed", "error", err)
			}
		}
	}
}
