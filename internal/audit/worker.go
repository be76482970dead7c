package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher's channel and fans them out
// to the configured stores. It keeps background processing testable without
// wiring queue implementations into the gateway.
type Worker struct {
	inbox  <-chan Event
	stores []Store
	logger *slog.Logger
}

// NewWorker constructs a worker over one or more stores.
func NewWorker(inbox <-chan Event, logger *slog.Logger, stores ...Store) *Worker {
	return &Worker{inbox: inbox, stores: stores, logger: logger}
}

// Run consumes until the context is cancelled. Store failures are logged and
// skipped; one failing sink must not starve the others.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, store := range w.stores {
				if err := store.Append(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit append failed",
						"error", err,
						"action", string(event.Action),
					)
				}
			}
		}
	}
}
