package memory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/banki/banki-srs/internal/domain"
)

// Seed is the YAML document accepted by LoadSeed:
//
//	decks:
//	  - id: 6f1c...
//	    title: Spanish basics
//	    cards:
//	      - id: 0b7e...
//	        question: hola
//	        answer: hello
type Seed struct {
	Decks []SeedDeck `yaml:"decks"`
}

// SeedDeck is one deck of a Seed.
type SeedDeck struct {
	ID    uuid.UUID  `yaml:"id"`
	Title string     `yaml:"title"`
	Cards []SeedCard `yaml:"cards"`
}

// SeedCard is one card of a SeedDeck.
type SeedCard struct {
	ID       uuid.UUID `yaml:"id"`
	Question string    `yaml:"question"`
	Answer   string    `yaml:"answer"`
}

// LoadSeed reads decks and cards from r into db. Cards keep their file
// order. It returns the number of cards loaded.
func (db *DB) LoadSeed(r io.Reader) (int, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to decode seed: %w", err)
	}

	n := 0
	for i, deck := range seed.Decks {
		if deck.ID == uuid.Nil {
			return n, fmt.Errorf("deck %d: %w", i, domain.ErrEmptyDeckID)
		}
		if strings.TrimSpace(deck.Title) == "" {
			return n, fmt.Errorf("deck %s: %w", deck.ID, domain.NewValidationError("title", "cannot be empty", nil))
		}
		db.AddDeck(deck.ID, deck.Title)

		for j, card := range deck.Cards {
			if card.ID == uuid.Nil {
				return n, fmt.Errorf("deck %s card %d: %w", deck.ID, j, domain.ErrEmptyCardID)
			}
			if err := db.AddCard(domain.Card{
				ID:       card.ID,
				DeckID:   deck.ID,
				Question: card.Question,
				Answer:   card.Answer,
			}); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// LoadSeedFile is LoadSeed over the file at path.
func (db *DB) LoadSeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return db.LoadSeed(f)
}
