// Package rating computes the aggregate product rating shown in the
// storefront: the arithmetic mean of all review ratings, rounded to one
// decimal place.
package rating

import (
	"github.com/shopspring/decimal"

	"github.com/bittumobiles/wholesale_shop/internal/models"
)

// Average is total over any review list; an empty list averages to 0 by
// convention, there is no division by zero.
func Average(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromFloat(r.Rating))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(reviews))))
	return avg.Round(1).InexactFloat64()
}
