package engine

import "log/slog"

// LoggingObserver logs all events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer on the default logger
func NewLoggingObserver() *LoggingObserver {
	return NewLoggingObserverWith(slog.Default())
}

func NewLoggingObserverWith(logger *slog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	if event.Type == EventError {
		lo.logger.Warn("query_lifecycle",
			"event", event.Type,
			"tx_id", event.TxID,
			"statement", event.Statement,
			"error", event.Data,
		)
		return
	}

	lo.logger.Debug("query_lifecycle",
		"event", event.Type,
		"tx_id", event.TxID,
		"statement", event.Statement,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
