package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter dispatches events synchronously to registered handlers.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

var _ Emitter = (*InMemoryEmitter)(nil)

// NewInMemoryEmitter creates an emitter with no handlers.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		logger: logger.With(slog.String("component", "event_emitter")),
	}
}

// Register adds a handler.
func (e *InMemoryEmitter) Register(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// Emit passes event to every handler. A failing handler does not stop the
// others; the first error is returned.
func (e *InMemoryEmitter) Emit(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var firstErr error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				slog.String("error", err.Error()),
				slog.Int("handler_index", i),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LogHandler writes every event to logger at info level.
func LogHandler(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "event_log"))
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		log.InfoContext(ctx, "event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type),
			slog.String("user_id", event.UserID.String()),
			slog.String("payload", string(event.Payload)))
		return nil
	})
}
