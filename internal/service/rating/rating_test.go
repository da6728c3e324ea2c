package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bittumobiles/wholesale_shop/internal/models"
)

func reviewsWithRatings(ratings ...float64) []models.Review {
	out := make([]models.Review, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, models.Review{Rating: r})
	}
	return out
}

func TestAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ratings []float64
		want    float64
	}{
		{name: "empty list is zero", ratings: nil, want: 0},
		{name: "single review", ratings: []float64{4}, want: 4},
		{name: "mixed ratings round to one decimal", ratings: []float64{5, 4.5, 4}, want: 4.5},
		{name: "repeating decimal", ratings: []float64{5, 4, 4}, want: 4.3},
		{name: "half ratings", ratings: []float64{4.5, 3.5}, want: 4},
		{name: "all fives", ratings: []float64{5, 5, 5}, want: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Average(reviewsWithRatings(tt.ratings...))
			assert.Equal(t, tt.want, got)
		})
	}
}
