package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewLearningState(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()
	deckID := uuid.New()
	now := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)

	state, err := NewLearningState(userID, cardID, deckID, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if state.ID == uuid.Nil {
		t.Error("Expected non-nil ID")
	}

	if state.UserID != userID || state.CardID != cardID || state.DeckID != deckID {
		t.Errorf("Unexpected identifiers: %+v", state)
	}

	if state.Interval != 0 {
		t.Errorf("Expected interval 0, got %d", state.Interval)
	}

	if state.Repetitions != 0 {
		t.Errorf("Expected repetitions 0, got %d", state.Repetitions)
	}

	if state.EaseFactor != InitialEaseFactor {
		t.Errorf("Expected ease factor %v, got %v", InitialEaseFactor, state.EaseFactor)
	}

	wantDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !state.NextReviewDate.Equal(wantDate) {
		t.Errorf("Expected next review date %v, got %v", wantDate, state.NextReviewDate)
	}

	if state.LastReviewed != nil {
		t.Errorf("Expected nil LastReviewed, got %v", state.LastReviewed)
	}

	if !state.IsNew() {
		t.Error("Expected fresh state to be new")
	}

	if !state.IsDue(now) {
		t.Error("Expected fresh state to be due on its creation day")
	}
}

func TestNewLearningState_Validation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		userID  uuid.UUID
		cardID  uuid.UUID
		deckID  uuid.UUID
		wantErr error
	}{
		{"missing user", uuid.Nil, uuid.New(), uuid.New(), ErrEmptyUserID},
		{"missing card", uuid.New(), uuid.Nil, uuid.New(), ErrEmptyCardID},
		{"missing deck", uuid.New(), uuid.New(), uuid.Nil, ErrEmptyDeckID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLearningState(tt.userID, tt.cardID, tt.deckID, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected error to classify as invalid argument, got %v", err)
			}
		})
	}
}

func TestLearningState_Validate(t *testing.T) {
	valid := func() *LearningState {
		s, err := NewLearningState(uuid.New(), uuid.New(), uuid.New(), time.Now())
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		return s
	}

	tests := []struct {
		name    string
		mutate  func(s *LearningState)
		wantErr error
	}{
		{"negative interval", func(s *LearningState) { s.Interval = -1 }, ErrInvalidInterval},
		{"zero interval after review", func(s *LearningState) { s.TotalReviews = 1 }, ErrInvalidInterval},
		{"ease below floor", func(s *LearningState) { s.EaseFactor = 1.29 }, ErrInvalidEase},
		{"ease above ceiling", func(s *LearningState) { s.EaseFactor = 2.51 }, ErrInvalidEase},
		{
			"correct exceeds total",
			func(s *LearningState) {
				s.Interval = 1
				s.TotalReviews = 1
				s.CorrectReviews = 2
			},
			ErrInvalidCounters,
		},
		{"negative repetitions", func(s *LearningState) { s.Repetitions = -1 }, ErrInvalidCounters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLearningState_Clone(t *testing.T) {
	reviewed := time.Now().UTC()
	s, _ := NewLearningState(uuid.New(), uuid.New(), uuid.New(), reviewed)
	s.LastReviewed = &reviewed

	c := s.Clone()
	c.Interval = 42
	*c.LastReviewed = reviewed.Add(time.Hour)

	if s.Interval != 0 {
		t.Errorf("Expected original interval untouched, got %d", s.Interval)
	}
	if !s.LastReviewed.Equal(reviewed) {
		t.Errorf("Expected original LastReviewed untouched, got %v", s.LastReviewed)
	}

	var nilState *LearningState
	if nilState.Clone() != nil {
		t.Error("Expected nil clone of nil state")
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 02:00 on the 11th in UTC+9 is still the 10th in UTC.
	in := time.Date(2024, 3, 11, 2, 0, 0, 0, loc)
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	if got := StartOfDay(in); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestValidateQuality(t *testing.T) {
	for q := MinQuality; q <= MaxQuality; q++ {
		if err := ValidateQuality(q); err != nil {
			t.Errorf("quality %d: unexpected error %v", q, err)
		}
	}

	for _, q := range []int{-1, 6, 100} {
		err := ValidateQuality(q)
		if !errors.Is(err, ErrInvalidQuality) || !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("quality %d: expected invalid quality, got %v", q, err)
		}
	}

	if err := ValidateDuration(-1); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Expected ErrInvalidDuration, got %v", err)
	}
}
