package domain

import (
	"sort"
	"time"
)

// DeckStats summarizes a user's progress through one deck.
type DeckStats struct {
	TotalCards     int     `json:"total_cards"     db:"total_cards"`
	LearnedCards   int     `json:"learned_cards"   db:"learned_cards"`
	DueCards       int     `json:"due_cards"       db:"due_cards"`
	AvgEaseFactor  float64 `json:"avg_ease_factor" db:"avg_ease_factor"`
	TotalReviews   int     `json:"total_reviews"   db:"total_reviews"`
	CorrectReviews int     `json:"correct_reviews" db:"correct_reviews"`
}

// DailyReviewStats aggregates the reviews of a single UTC day.
type DailyReviewStats struct {
	Date              time.Time `json:"date"                db:"review_date"`
	TotalReviews      int       `json:"total_reviews"       db:"total_reviews"`
	CorrectReviews    int       `json:"correct_reviews"     db:"correct_reviews"`
	AvgQuality        float64   `json:"avg_quality"         db:"avg_quality"`
	AvgReviewDuration float64   `json:"avg_review_duration" db:"avg_review_duration"`
}

// UserTotals aggregates learning states across all of a user's decks.
type UserTotals struct {
	TotalDecks     int `json:"total_decks"     db:"total_decks"`
	TotalCards     int `json:"total_cards"     db:"total_cards"`
	TotalReviews   int `json:"total_reviews"   db:"total_reviews"`
	CorrectReviews int `json:"correct_reviews" db:"correct_reviews"`
}

// UserStats is the combined study report for a user.
type UserStats struct {
	Daily         []DailyReviewStats `json:"daily_stats"`
	Totals        UserTotals         `json:"overall"`
	CurrentStreak int                `json:"current_streak"`
}

// CurrentStreak counts consecutive study days ending at the most recent
// day in reviewDays. Times are reduced to UTC dates and duplicates are
// ignored, so the input may be unsorted and contain raw timestamps.
func CurrentStreak(reviewDays []time.Time) int {
	if len(reviewDays) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(reviewDays))
	days := make([]time.Time, 0, len(reviewDays))
	for _, d := range reviewDays {
		day := StartOfDay(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}
