package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/log"
)

// EntryStore is the persistence surface the service needs.
type EntryStore interface {
	CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	SoftDeleteEntry(ctx context.Context, id int64) error
}

// EntryService orchestrates entry writes across the store and AMQP: the
// store is written first, then a sync message is published best-effort so
// the export worker can pick the entry up.
type EntryService struct {
	store      EntryStore
	amqpClient *amqp.Client
}

func NewEntryService(store EntryStore, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// CreateEntry saves an entry locally and publishes a sync message. A
// publish failure never fails the request; the entry is already saved and
// the worker's batch fallback will find it.
func (s *EntryService) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	created, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message", log.FieldEntryID, created.ID)
		return created, nil
	}
	if err := s.amqpClient.PublishEntrySync(ctx, created.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldEntryID, created.ID, log.FieldError, err)
	}

	return created, nil
}

// DeleteEntry soft deletes an entry.
func (s *EntryService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.store.SoftDeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}
	return nil
}

// Close closes the AMQP connection if one is configured.
func (s *EntryService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
