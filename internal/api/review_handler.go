package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/api/shared"
	"github.com/banki/banki-srs/internal/domain"
	"github.com/banki/banki-srs/internal/domain/srs"
	"github.com/banki/banki-srs/internal/platform/logger"
	"github.com/banki/banki-srs/internal/service/review"
)

// ReviewHandler serves the review, progress and statistics endpoints.
type ReviewHandler struct {
	service review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler. A nil logger falls back to
// slog.Default().
func NewReviewHandler(service review.Service, log *slog.Logger) *ReviewHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		service: service,
		logger:  log.With(slog.String("component", "review_handler")),
	}
}

// GetDueCards handles GET /api/reviews/due.
func (h *ReviewHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, err := getQueryUUID(r, "deck_id")
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	autoInit, err := getQueryBool(r, "auto_init")
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	cards, err := h.service.DueCards(r.Context(), userID, review.DueOptions{
		DeckID:         deckID,
		Limit:          limit,
		AutoInitialize: autoInit,
	})
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if cards == nil {
		cards = []domain.DueCard{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{Count: len(cards), Cards: cards})
}

// SubmitReview handles POST /api/reviews.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleAPIError(w, r, err)
		return
	}
	cardID := uuid.MustParse(req.CardID)

	state, err := h.service.SubmitReview(r.Context(), userID, cardID, srs.Review{
		Quality:  *req.Quality,
		Duration: req.ReviewDuration,
	})
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("interval", state.Interval))

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// InitializeProgress handles POST /api/reviews/progress.
func (h *ReviewHandler) InitializeProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req InitializeProgressRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleAPIError(w, r, err)
		return
	}

	state, err := h.service.InitializeProgress(r.Context(), userID,
		uuid.MustParse(req.CardID), uuid.MustParse(req.DeckID))
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// InitializeDeckProgress handles POST /api/decks/{id}/progress.
func (h *ReviewHandler) InitializeDeckProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	n, err := h.service.InitializeDeckProgress(r.Context(), userID, deckID)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	log.Info("deck progress initialized",
		slog.String("deck_id", deckID.String()),
		slog.Int("cards", n))

	shared.RespondWithJSON(w, r, http.StatusOK, DeckProgressResponse{Initialized: n})
}

// GetDeckStats handles GET /api/decks/{id}/stats.
func (h *ReviewHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	stats, err := h.service.DeckStats(r.Context(), userID, deckID)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetUserStats handles GET /api/stats.
func (h *ReviewHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	days, err := getQueryInt(r, "days", 0)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	stats, err := h.service.UserStats(r.Context(), userID, days)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if stats.Daily == nil {
		stats.Daily = []domain.DailyReviewStats{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetReviewHistory handles GET /api/reviews/history.
func (h *ReviewHandler) GetReviewHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	limit, err := getQueryInt(r, "limit", 0)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	reviews, err := h.service.ReviewHistory(r.Context(), userID, limit)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.ReviewEvent{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewHistoryResponse{Count: len(reviews), Reviews: reviews})
}

// HealthHandler returns a handler for GET /health. When ping is non-nil
// and fails, the handler reports 503.
func HealthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Service unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
