package notifier

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/jmylchreest/webnotify/internal/notification"
)

// FallbackNotifier is the backend for platforms without a notification
// service integration. It logs the notification and always reports success
// with a synthetic id.
type FallbackNotifier struct {
	logger *slog.Logger
	nextID atomic.Uint32
}

// NewFallbackNotifier creates a FallbackNotifier.
func NewFallbackNotifier(logger *slog.Logger) *FallbackNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackNotifier{logger: logger}
}

// Notify logs the notification's title and body and returns a synthetic id.
func (f *FallbackNotifier) Notify(_ context.Context, rec *notification.Record) (ID, error) {
	id := ID(f.nextID.Add(1))
	f.logger.Info("desktop notification", "id", id, "title", rec.Title(), "body", rec.Body())
	return id, nil
}
