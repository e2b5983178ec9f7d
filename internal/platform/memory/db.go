package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/store"
)

type stateKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

type cardRecord struct {
	card domain.Card
	seq  int
}

// data is everything a DB holds. Learning states are stored as pointers
// owned by the map and never handed out directly.
type data struct {
	decks   map[uuid.UUID]string
	cards   map[uuid.UUID]cardRecord
	states  map[stateKey]*domain.LearningState
	reviews []domain.ReviewEvent
	seq     int
}

func newData() data {
	return data{
		decks:  make(map[uuid.UUID]string),
		cards:  make(map[uuid.UUID]cardRecord),
		states: make(map[stateKey]*domain.LearningState),
	}
}

func (d *data) clone() data {
	c := data{
		decks:   make(map[uuid.UUID]string, len(d.decks)),
		cards:   make(map[uuid.UUID]cardRecord, len(d.cards)),
		states:  make(map[stateKey]*domain.LearningState, len(d.states)),
		reviews: append([]domain.ReviewEvent(nil), d.reviews...),
		seq:     d.seq,
	}
	for k, v := range d.decks {
		c.decks[k] = v
	}
	for k, v := range d.cards {
		c.cards[k] = v
	}
	for k, v := range d.states {
		c.states[k] = v.Clone()
	}
	return c
}

// DB is an in-memory database shared by the stores it hands out.
type DB struct {
	mu     sync.RWMutex
	data   data
	logger *slog.Logger
}

// NewDB creates an empty database. If logger is nil, a default logger will be used.
func NewDB(logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{
		data:   newData(),
		logger: logger.With(slog.String("component", "memory_db")),
	}
}

// AddDeck registers a deck. Decks and cards are owned by another service;
// this is the seeding hook for the memory driver and tests.
func (db *DB) AddDeck(id uuid.UUID, title string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data.decks[id] = title
}

// AddCard registers a card in an existing deck.
func (db *DB) AddCard(card domain.Card) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	title, ok := db.data.decks[card.DeckID]
	if !ok {
		return fmt.Errorf("%w: deck %s", store.ErrNotFound, card.DeckID)
	}
	card.DeckTitle = title
	db.data.seq++
	db.data.cards[card.ID] = cardRecord{card: card, seq: db.data.seq}
	return nil
}

// Stores returns stores that lock per call.
func (db *DB) Stores() store.Stores {
	return db.stores(false)
}

func (db *DB) stores(inTx bool) store.Stores {
	return store.Stores{
		Progress: &ProgressStore{db: db, inTx: inTx},
		Reviews:  &ReviewStore{db: db, inTx: inTx},
		Decks:    &DeckReader{db: db, inTx: inTx},
	}
}

var _ store.UnitOfWork = (*DB)(nil)

// RunInTransaction implements store.UnitOfWork.RunInTransaction. fn runs
// under the write lock; on error or panic the data is restored.
func (db *DB) RunInTransaction(ctx context.Context, fn store.TxFn) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, db.logger)
	start := time.Now()

	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.data.clone()

	defer func() {
		if p := recover(); p != nil {
			db.data = snapshot
			log.Error("panic in transaction, changes discarded",
				slog.Any("panic", p))
			panic(p)
		}
		if err != nil {
			db.data = snapshot
			log.Debug("transaction rolled back",
				slog.String("error", err.Error()),
				slog.Duration("duration", time.Since(start)))
		}
	}()

	return fn(ctx, db.stores(true))
}

// read runs f under the read lock unless the caller already holds the
// write lock through a transaction.
func (db *DB) read(ctx context.Context, inTx bool, f func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx {
		db.mu.RLock()
		defer db.mu.RUnlock()
	}
	return f(&db.data)
}

func (db *DB) write(ctx context.Context, inTx bool, f func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx {
		db.mu.Lock()
		defer db.mu.Unlock()
	}
	return f(&db.data)
}
