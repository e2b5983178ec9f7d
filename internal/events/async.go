package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned by AsyncEmitter.Emit when the dispatch queue has
// no room. The event is dropped.
var ErrQueueFull = errors.New("event queue is full")

// ErrEmitterStopped is returned by AsyncEmitter.Emit after Stop.
var ErrEmitterStopped = errors.New("event emitter is stopped")

// AsyncConfig sizes an AsyncEmitter.
type AsyncConfig struct {
	// Workers is the number of dispatch goroutines. Values below 1 become 1.
	Workers int
	// QueueSize is the buffer between Emit and the workers.
	QueueSize int
	// HandlerTimeout bounds each dispatch. Zero means no timeout.
	HandlerTimeout time.Duration
}

// AsyncEmitter queues events and dispatches them to next from a pool of
// worker goroutines, so handlers never run on the request path. Events
// still queued at Stop are dispatched before Stop returns.
type AsyncEmitter struct {
	next   Emitter
	queue  chan *Event
	cfg    AsyncConfig
	logger *slog.Logger

	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

var _ Emitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter starts the workers and returns the emitter.
func NewAsyncEmitter(next Emitter, cfg AsyncConfig, logger *slog.Logger) *AsyncEmitter {
	if next == nil {
		panic("next emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "async_event_emitter"))
	if cfg.Workers < 1 {
		log.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", cfg.Workers),
			slog.Int("default_count", 1))
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	e := &AsyncEmitter{
		next:   next,
		queue:  make(chan *Event, cfg.QueueSize),
		cfg:    cfg,
		logger: log,
	}
	for i := 0; i < cfg.Workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	return e
}

// Emit enqueues event without blocking. The caller's context is not
// carried into dispatch: events outlive the request that produced them.
func (e *AsyncEmitter) Emit(_ context.Context, event *Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.stopped {
		return ErrEmitterStopped
	}

	select {
	case e.queue <- event:
		return nil
	default:
		e.logger.Warn("dropping event, queue is full",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
		return ErrQueueFull
	}
}

// Stop rejects new events, drains the queue and waits for the workers.
// It is safe to call more than once.
func (e *AsyncEmitter) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *AsyncEmitter) worker(id int) {
	defer e.wg.Done()

	e.logger.Debug("starting worker", slog.Int("worker_id", id))
	for event := range e.queue {
		e.dispatch(event)
	}
	e.logger.Debug("stopping worker", slog.Int("worker_id", id))
}

func (e *AsyncEmitter) dispatch(event *Event) {
	ctx := context.Background()
	if e.cfg.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.HandlerTimeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("event handler panicked",
				slog.Any("panic", p),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type))
		}
	}()

	if err := e.next.Emit(ctx, event); err != nil {
		e.logger.Error("event dispatch failed",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
	}
}
