package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeListing(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantAvg   float64
		wantCount int
		wantOK    bool
	}{
		{"три отзыва", []int{5, 4, 3}, 4.0, 3, true},
		{"один отзыв", []int{2}, 2.0, 1, true},
		{"округление вверх", []int{5, 4}, 4.5, 2, true},
		{"округление до одного знака", []int{5, 5, 4}, 4.7, 3, true},
		{"без отзывов", nil, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count, ok := RecomputeListing(tt.ratings)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCount, count)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
		})
	}
}

func TestRecomputeProvider(t *testing.T) {
	tests := []struct {
		name      string
		listings  []ListingSummary
		wantAvg   float64
		wantCount int
		wantOK    bool
	}{
		{
			name: "взвешенное среднее по двум объявлениям",
			listings: []ListingSummary{
				{Rating: 5.0, ReviewCount: 2},
				{Rating: 4.0, ReviewCount: 3},
			},
			// (5.0*2 + 4.0*3) / 5 = 4.4
			wantAvg:   4.4,
			wantCount: 5,
			wantOK:    true,
		},
		{
			name: "объявления без отзывов не влияют на вес",
			listings: []ListingSummary{
				{Rating: 5.0, ReviewCount: 0},
				{Rating: 3.0, ReviewCount: 4},
			},
			wantAvg:   3.0,
			wantCount: 4,
			wantOK:    true,
		},
		{
			name:     "совсем без отзывов",
			listings: []ListingSummary{{Rating: 5.0, ReviewCount: 0}},
			wantOK:   false,
		},
		{
			name:   "нет объявлений",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count, ok := RecomputeProvider(tt.listings)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCount, count)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
		})
	}
}
