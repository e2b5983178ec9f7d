package store

import (
	"context"

	"github.com/google/uuid"
)

// DeckReader exposes the read-only slice of deck data the scheduler
// needs. Deck and card management belong to another service.
type DeckReader interface {
	// CardIDs returns the IDs of every card in the deck. An unknown or empty
	// deck yields an empty slice.
	CardIDs(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error)
}
