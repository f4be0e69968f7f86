// Package worker processes entry export jobs: AMQP-delivered sync
// messages plus a periodic batch fallback that drains pending entries the
// queue may have missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/export"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// MaxSyncAttempts bounds how often the batch fallback retries one entry.
const MaxSyncAttempts = 5

// ExportWorker moves entries from the local store to the export target.
type ExportWorker struct {
	storage  *storage.SQLiteRepository
	exporter export.EntryAppender
}

func NewExportWorker(storage *storage.SQLiteRepository, exporter export.EntryAppender) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		exporter: exporter,
	}
}

// HandleSyncMessage processes one sync message from AMQP. Returning an
// error requeues the message.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		log.FieldEntryID, msg.ID,
		"version", msg.Version)

	return w.exportEntry(ctx, msg.ID)
}

func (w *ExportWorker) exportEntry(ctx context.Context, id int64) error {
	entry, err := w.storage.GetEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if w.exporter == nil {
		slog.WarnContext(ctx, "No exporter configured, skipping entry", log.FieldEntryID, id)
		return nil
	}

	ref, err := w.exporter.Append(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error", log.FieldEntryID, id, log.FieldError, markErr)
		}
		return fmt.Errorf("export entry %d: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}

	slog.InfoContext(ctx, "Entry exported",
		log.FieldEntryID, id,
		log.FieldExportRef, ref)
	return nil
}

// RunBatchFallback periodically drains pending entries so a dead queue
// cannot strand rows. It blocks until ctx is cancelled.
func (w *ExportWorker) RunBatchFallback(ctx context.Context, interval time.Duration, batchSize int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping batch fallback", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := w.drainPending(ctx, batchSize); err != nil {
				slog.ErrorContext(ctx, "Batch fallback pass failed", log.FieldError, err)
			}
		}
	}
}

func (w *ExportWorker) drainPending(ctx context.Context, batchSize int) error {
	pending, err := w.storage.GetPendingSyncEntries(ctx, batchSize, MaxSyncAttempts)
	if err != nil {
		return fmt.Errorf("get pending sync entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Draining pending entries", "count", len(pending))

	for _, p := range pending {
		if err := w.exportEntry(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending entry",
				log.FieldEntryID, p.ID, log.FieldError, err)
			// Keep draining the rest of the batch
		}
	}
	return nil
}
