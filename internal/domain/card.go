package domain

import (
	"github.com/google/uuid"
)

// Card is the minimal view of a flashcard the scheduler needs. Card and
// deck management live outside this service.
type Card struct {
	ID        uuid.UUID `json:"id"         db:"id"`
	DeckID    uuid.UUID `json:"deck_id"    db:"deck_id"`
	Question  string    `json:"question"   db:"question"`
	Answer    string    `json:"answer"     db:"answer"`
	DeckTitle string    `json:"deck_title" db:"deck_title"`
}

// DueCard pairs a card with the learning state that made it due.
type DueCard struct {
	Card  Card          `json:"card"`
	State LearningState `json:"progress"`
}
