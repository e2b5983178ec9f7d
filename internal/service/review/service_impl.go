package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/config"
	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/domain/srs"
	"github.com/banki/banki-srs/internal/events"
	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/store"
)

// maxStatsDays bounds the window accepted by UserStats.
const maxStatsDays = 365

// Option customizes a service built by NewService.
type Option func(*service)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEmitter publishes committed changes to emitter.
func WithEmitter(emitter events.Emitter) Option {
	return func(s *service) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// Verify interface compliance at compile time
var _ Service = (*service)(nil)

type service struct {
	stores    store.Stores
	uow       store.UnitOfWork
	scheduler srs.Scheduler
	cfg       config.ReviewConfig
	emitter   events.Emitter
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates the review service. stores is used for reads outside a
// unit of work; writes go through uow.
func NewService(
	stores store.Stores,
	uow store.UnitOfWork,
	scheduler srs.Scheduler,
	cfg config.ReviewConfig,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if stores.Progress == nil || stores.Reviews == nil || stores.Decks == nil {
		panic("stores cannot be nil")
	}
	if uow == nil {
		panic("uow cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConflictRetries == 0 {
		cfg.MaxConflictRetries = 1
	}

	s := &service{
		stores:    stores,
		uow:       uow,
		scheduler: scheduler,
		cfg:       cfg,
		emitter:   events.NopEmitter{},
		now:       time.Now,
		logger:    logger.With(slog.String("component", "review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) clock() time.Time {
	return s.now().UTC()
}

// InitializeProgress implements Service.InitializeProgress.
func (s *service) InitializeProgress(
	ctx context.Context,
	userID, cardID, deckID uuid.UUID,
) (*domain.LearningState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fresh, err := domain.NewLearningState(userID, cardID, deckID, s.clock())
	if err != nil {
		return nil, NewServiceError(OpInitializeProgress, "invalid identifiers", err)
	}

	state, err := s.stores.Progress.Insert(ctx, fresh)
	if err != nil {
		log.Error("failed to initialize progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError(OpInitializeProgress, "failed to initialize progress", err)
	}

	log.Debug("progress initialized",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("created", state.ID == fresh.ID))
	return state, nil
}

// InitializeDeckProgress implements Service.InitializeDeckProgress.
func (s *service) InitializeDeckProgress(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return 0, NewServiceError(OpInitializeDeckProgress, "invalid user", domain.ErrEmptyUserID)
	}
	if deckID == uuid.Nil {
		return 0, NewServiceError(OpInitializeDeckProgress, "invalid deck", domain.ErrEmptyDeckID)
	}

	now := s.clock()
	var cards, created int

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context, tx store.Stores) error {
		ids, err := tx.Decks.CardIDs(ctx, deckID)
		if err != nil {
			return fmt.Errorf("failed to list deck cards: %w", err)
		}

		states := make([]*domain.LearningState, 0, len(ids))
		for _, id := range ids {
			st, err := domain.NewLearningState(userID, id, deckID, now)
			if err != nil {
				return err
			}
			states = append(states, st)
		}

		created, err = tx.Progress.InsertMany(ctx, states)
		if err != nil {
			return fmt.Errorf("failed to insert learning states: %w", err)
		}
		cards = len(ids)
		return nil
	})
	if err != nil {
		log.Error("failed to initialize deck progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return 0, NewServiceError(OpInitializeDeckProgress, "failed to initialize deck", err)
	}

	log.Info("deck progress initialized",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("cards", cards),
		slog.Int("created", created))

	if created > 0 {
		s.emit(ctx, events.TypeDeckInitialized, userID, events.DeckInitialized{
			DeckID:  deckID,
			Cards:   cards,
			Created: created,
		})
	}
	return cards, nil
}

// DueCards implements Service.DueCards.
func (s *service) DueCards(ctx context.Context, userID uuid.UUID, opts DueOptions) ([]domain.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit, err := s.dueLimit(opts.Limit)
	if err != nil {
		return nil, NewServiceError(OpDueCards, "invalid limit", err)
	}

	q := store.DueQuery{
		UserID: userID,
		DeckID: opts.DeckID,
		Today:  s.clock(),
		Limit:  limit,
	}

	due, err := s.stores.Progress.ListDue(ctx, q)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError(OpDueCards, "failed to list due cards", err)
	}

	if len(due) > 0 || !opts.AutoInitialize || opts.DeckID == nil {
		return due, nil
	}

	// Cards without a learning state are new to this user, either because
	// the deck was never started or because cards were added since.
	stats, err := s.stores.Progress.DeckStats(ctx, userID, *opts.DeckID, q.Today)
	if err != nil {
		return nil, NewServiceError(OpDueCards, "failed to inspect deck", err)
	}
	if stats.TotalCards == 0 || stats.LearnedCards >= stats.TotalCards {
		return due, nil
	}

	log.Debug("auto-initializing deck",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", opts.DeckID.String()))

	if _, err := s.InitializeDeckProgress(ctx, userID, *opts.DeckID); err != nil {
		return nil, err
	}

	due, err = s.stores.Progress.ListDue(ctx, q)
	if err != nil {
		return nil, NewServiceError(OpDueCards, "failed to list due cards", err)
	}
	return due, nil
}

func (s *service) dueLimit(requested int) (uint64, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidArgument)
	case requested == 0:
		requested = s.cfg.DefaultDueLimit
	}
	if s.cfg.MaxDueLimit > 0 && requested > s.cfg.MaxDueLimit {
		requested = s.cfg.MaxDueLimit
	}
	return uint64(requested), nil
}

// SubmitReview implements Service.SubmitReview.
func (s *service) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	review srs.Review,
) (*domain.LearningState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	if err := domain.ValidateQuality(review.Quality); err != nil {
		log.Warn("invalid review quality", slog.Int("quality", review.Quality))
		return nil, NewServiceError(OpSubmitReview, "invalid quality", err)
	}
	if err := domain.ValidateDuration(review.Duration); err != nil {
		log.Warn("invalid review duration", slog.Int("duration", review.Duration))
		return nil, NewServiceError(OpSubmitReview, "invalid duration", err)
	}

	var (
		updated *domain.LearningState
		event   *domain.ReviewEvent
	)

	err := retry.Do(
		func() error {
			return s.uow.RunInTransaction(ctx, func(ctx context.Context, tx store.Stores) error {
				state, err := tx.Progress.Get(ctx, userID, cardID)
				if err != nil {
					return err
				}

				next, ev, err := s.scheduler.Schedule(state, review, s.clock())
				if err != nil {
					return err
				}

				if err := tx.Progress.Update(ctx, next); err != nil {
					return err
				}
				if err := tx.Reviews.Append(ctx, ev); err != nil {
					return fmt.Errorf("failed to record review: %w", err)
				}

				updated, event = next, ev
				return nil
			})
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.MaxConflictRetries),
		retry.Delay(s.cfg.ConflictRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrConflict)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug("review lost a concurrent update, retrying",
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			log.Warn("review submitted for uninitialized card")
			return nil, NewServiceError(OpSubmitReview, "learning state not found", err)
		case errors.Is(err, domain.ErrConflict):
			log.Warn("review conflict persisted after retries",
				slog.Uint64("attempts", uint64(s.cfg.MaxConflictRetries)))
			return nil, NewServiceError(OpSubmitReview, "concurrent update", err)
		default:
			log.Error("failed to submit review", slog.String("error", err.Error()))
			return nil, NewServiceError(OpSubmitReview, "failed to submit review", err)
		}
	}

	log.Debug("review recorded",
		slog.Int("quality", review.Quality),
		slog.Int("interval", updated.Interval),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Time("next_review_date", updated.NextReviewDate))

	s.emit(ctx, events.TypeReviewRecorded, userID, events.ReviewRecorded{
		ReviewID:       event.ID,
		CardID:         cardID,
		DeckID:         updated.DeckID,
		Quality:        review.Quality,
		Interval:       updated.Interval,
		EaseFactor:     updated.EaseFactor,
		NextReviewDate: updated.NextReviewDate,
	})
	return updated, nil
}

// DeckStats implements Service.DeckStats.
func (s *service) DeckStats(ctx context.Context, userID, deckID uuid.UUID) (*domain.DeckStats, error) {
	stats, err := s.stores.Progress.DeckStats(ctx, userID, deckID, s.clock())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute deck stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, NewServiceError(OpDeckStats, "failed to compute deck stats", err)
	}
	return stats, nil
}

// UserStats implements Service.UserStats.
func (s *service) UserStats(ctx context.Context, userID uuid.UUID, days int) (*domain.UserStats, error) {
	switch {
	case days < 0:
		return nil, NewServiceError(OpUserStats, "invalid window",
			fmt.Errorf("%w: days must not be negative", domain.ErrInvalidArgument))
	case days == 0:
		days = s.cfg.StatsDays
	case days > maxStatsDays:
		days = maxStatsDays
	}

	since := domain.StartOfDay(s.clock()).AddDate(0, 0, -(days - 1))

	daily, err := s.stores.Reviews.DailyStats(ctx, userID, since)
	if err != nil {
		return nil, NewServiceError(OpUserStats, "failed to compute daily stats", err)
	}

	totals, err := s.stores.Progress.UserTotals(ctx, userID)
	if err != nil {
		return nil, NewServiceError(OpUserStats, "failed to compute totals", err)
	}

	reviewDays, err := s.stores.Reviews.ReviewDays(ctx, userID)
	if err != nil {
		return nil, NewServiceError(OpUserStats, "failed to list review days", err)
	}

	return &domain.UserStats{
		Daily:         daily,
		Totals:        *totals,
		CurrentStreak: domain.CurrentStreak(reviewDays),
	}, nil
}

// ReviewHistory implements Service.ReviewHistory.
func (s *service) ReviewHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ReviewEvent, error) {
	switch {
	case limit < 0:
		return nil, NewServiceError(OpReviewHistory, "invalid limit",
			fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidArgument))
	case limit == 0:
		limit = s.cfg.HistoryLimit
	case s.cfg.HistoryLimit > 0 && limit > s.cfg.HistoryLimit:
		limit = s.cfg.HistoryLimit
	}

	history, err := s.stores.Reviews.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, NewServiceError(OpReviewHistory, "failed to list reviews", err)
	}
	return history, nil
}

// emit publishes a committed change. Failures are logged; the change itself
// already succeeded.
func (s *service) emit(ctx context.Context, eventType string, userID uuid.UUID, payload any) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(eventType, userID, payload, s.clock())
	if err != nil {
		log.Error("failed to build event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType))
	}
}
