package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banki/banki-srs/internal/domain"
)

const seedYAML = `
decks:
  - id: 6f1c2a3e-6b7d-4c88-9a0f-1e2d3c4b5a69
    title: Spanish basics
    cards:
      - id: 0b7e1f2a-3c4d-4e5f-8a9b-0c1d2e3f4a5b
        question: hola
        answer: hello
      - id: 1c8f2a3b-4d5e-4f60-9b0c-1d2e3f4a5b6c
        question: adiós
        answer: goodbye
`

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	db := NewDB(nil)
	n, err := db.LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	deckID := uuid.MustParse("6f1c2a3e-6b7d-4c88-9a0f-1e2d3c4b5a69")
	ids, err := db.Stores().Decks.CardIDs(context.Background(), deckID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{
		uuid.MustParse("0b7e1f2a-3c4d-4e5f-8a9b-0c1d2e3f4a5b"),
		uuid.MustParse("1c8f2a3b-4d5e-4f60-9b0c-1d2e3f4a5b6c"),
	}, ids)
}

func TestLoadSeed_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "missing deck id",
			doc:     "decks:\n  - title: x\n",
			wantErr: domain.ErrEmptyDeckID,
		},
		{
			name:    "missing title",
			doc:     "decks:\n  - id: 6f1c2a3e-6b7d-4c88-9a0f-1e2d3c4b5a69\n",
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "missing card id",
			doc:     "decks:\n  - id: 6f1c2a3e-6b7d-4c88-9a0f-1e2d3c4b5a69\n    title: x\n    cards:\n      - question: q\n",
			wantErr: domain.ErrEmptyCardID,
		},
		{
			name: "unknown field",
			doc:  "decks:\n  - id: 6f1c2a3e-6b7d-4c88-9a0f-1e2d3c4b5a69\n    name: x\n",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewDB(nil).LoadSeed(strings.NewReader(tc.doc))
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestLoadSeed_Empty(t *testing.T) {
	t.Parallel()

	n, err := NewDB(nil).LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	n, err := NewDB(nil).LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = NewDB(nil).LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
