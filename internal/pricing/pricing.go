// Package pricing resolves the unit price of a product for a requested
// quantity from its bulk-pricing slabs. The same resolution is used by the
// cart, the product detail page and the quick-view modal, so it lives here
// once and takes no state.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bittumobiles/wholesale_shop/internal/models"
)

var (
	// ErrInvalidQuantity is returned when a quote is requested for a
	// quantity below 1. The resolver fails closed instead of clamping;
	// callers that want stepper-style clamping do it before calling.
	ErrInvalidQuantity = errors.New("invalid quantity")

	ErrValidation = errors.New("validation")
)

// ResolveUnitPrice returns the unit price for qty units: among the slabs
// with min_qty <= qty the one with the largest min_qty wins, and when no
// slab qualifies the wholesale price applies unchanged. The slabs slice is
// not modified.
func ResolveUnitPrice(wholesalePrice float64, slabs []models.PricingSlab, qty int) (float64, error) {
	if qty < 1 {
		return 0, fmt.Errorf("%w: quantity must be >= 1, got %d", ErrInvalidQuantity, qty)
	}

	price := wholesalePrice
	best := uint(0)
	for _, s := range slabs {
		if uint(qty) >= s.MinQty && s.MinQty > best {
			best = s.MinQty
			price = s.Price
		}
	}
	return price, nil
}

// ValidateSlabs is the catalog-write guard for a product's slab table:
// every min_qty must be >= 1 and unique, every price must be positive and
// must not exceed the wholesale price, and prices must be non-increasing
// as min_qty rises. A larger order never costs more per unit.
func ValidateSlabs(wholesalePrice float64, slabs []models.PricingSlab) error {
	if wholesalePrice <= 0 {
		return fmt.Errorf("%w: wholesale price must be positive", ErrValidation)
	}

	sorted := make([]models.PricingSlab, len(slabs))
	copy(sorted, slabs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinQty < sorted[j].MinQty })

	prevPrice := wholesalePrice
	for i, s := range sorted {
		if s.MinQty < 1 {
			return fmt.Errorf("%w: slab min_qty must be >= 1", ErrValidation)
		}
		if s.Price <= 0 {
			return fmt.Errorf("%w: slab price must be positive", ErrValidation)
		}
		if i > 0 && s.MinQty == sorted[i-1].MinQty {
			return fmt.Errorf("%w: duplicate slab min_qty %d", ErrValidation, s.MinQty)
		}
		if s.Price > prevPrice {
			return fmt.Errorf("%w: slab price %v at min_qty %d exceeds the price of a smaller quantity", ErrValidation, s.Price, s.MinQty)
		}
		prevPrice = s.Price
	}
	return nil
}
