package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransactionRecorded indicates a raw note was durably persisted.
	KindTransactionRecorded = "transaction_recorded"
	// KindTransactionEnriched indicates extraction output was applied to a note.
	KindTransactionEnriched = "transaction_enriched"
)

// Event describes a pipeline milestone emitted for downstream systems.
type Event struct {
	Kind          string
	OwnerID       string
	TransactionID string
	Detail        string
}

// Notifier delivers pipeline events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", event.Kind,
		"owner_id", event.OwnerID,
		"transaction_id", event.TransactionID,
		"detail", event.Detail,
	)
	return nil
}
