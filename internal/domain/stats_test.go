package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentStreak(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time {
		return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{name: "no reviews", days: nil, want: 0},
		{name: "single day", days: []time.Time{day(10)}, want: 1},
		{name: "three consecutive days", days: []time.Time{day(8), day(9), day(10)}, want: 3},
		{name: "gap breaks the run", days: []time.Time{day(5), day(6), day(9), day(10)}, want: 2},
		{
			name: "duplicate timestamps within a day count once",
			days: []time.Time{
				day(10).Add(8 * time.Hour),
				day(10).Add(20 * time.Hour),
				day(9).Add(time.Hour),
			},
			want: 2,
		},
		{name: "unsorted input", days: []time.Time{day(10), day(8), day(9), day(1)}, want: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CurrentStreak(tt.days))
		})
	}
}
