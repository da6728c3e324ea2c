package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittumobiles/wholesale_shop/internal/models"
)

func galaxySlabs() []models.PricingSlab {
	return []models.PricingSlab{
		{MinQty: 5, Price: 112000},
		{MinQty: 10, Price: 110000},
	}
}

func TestResolveUnitPrice_SlabSelection(t *testing.T) {
	t.Parallel()

	const wholesale = 115000.0

	tests := []struct {
		name string
		qty  int
		want float64
	}{
		{name: "below all slabs", qty: 1, want: 115000},
		{name: "exactly first slab", qty: 5, want: 112000},
		{name: "between slabs", qty: 9, want: 112000},
		{name: "exactly second slab", qty: 10, want: 110000},
		{name: "far above all slabs", qty: 1000, want: 110000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveUnitPrice(wholesale, galaxySlabs(), tt.qty)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnitPrice_InvalidQuantity(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -1, -100} {
		_, err := ResolveUnitPrice(115000, galaxySlabs(), qty)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestResolveUnitPrice_NoSlabs(t *testing.T) {
	t.Parallel()

	got, err := ResolveUnitPrice(21500, nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 21500.0, got)
}

func TestResolveUnitPrice_UnsortedSlabsSameResult(t *testing.T) {
	t.Parallel()

	sorted := []models.PricingSlab{
		{MinQty: 3, Price: 127000},
		{MinQty: 10, Price: 125000},
	}
	reversed := []models.PricingSlab{
		{MinQty: 10, Price: 125000},
		{MinQty: 3, Price: 127000},
	}

	for qty := 1; qty <= 20; qty++ {
		a, err := ResolveUnitPrice(128000, sorted, qty)
		require.NoError(t, err)
		b, err := ResolveUnitPrice(128000, reversed, qty)
		require.NoError(t, err)
		assert.Equal(t, a, b, "qty %d", qty)
	}
}

func TestResolveUnitPrice_IdempotentAndPure(t *testing.T) {
	t.Parallel()

	slabs := galaxySlabs()

	first, err := ResolveUnitPrice(115000, slabs, 7)
	require.NoError(t, err)
	second, err := ResolveUnitPrice(115000, slabs, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, galaxySlabs(), slabs, "slab slice must not be mutated")
}

// Once a tier qualifies, raising the quantity keeps it or moves to a
// higher tier; the selected min_qty never regresses.
func TestResolveUnitPrice_TierMonotonic(t *testing.T) {
	t.Parallel()

	slabs := []models.PricingSlab{
		{MinQty: 5, Price: 40500},
		{MinQty: 15, Price: 39500},
	}

	prev := 41000.0
	for qty := 1; qty <= 50; qty++ {
		got, err := ResolveUnitPrice(41000, slabs, qty)
		require.NoError(t, err)
		assert.LessOrEqual(t, got, prev, "qty %d", qty)
		prev = got
	}
}

func TestValidateSlabs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wholesale float64
		slabs     []models.PricingSlab
		wantErr   bool
	}{
		{
			name:      "valid descending prices",
			wholesale: 115000,
			slabs:     galaxySlabs(),
		},
		{
			name:      "empty slab table",
			wholesale: 21500,
		},
		{
			name:      "duplicate min_qty",
			wholesale: 115000,
			slabs: []models.PricingSlab{
				{MinQty: 5, Price: 112000},
				{MinQty: 5, Price: 111000},
			},
			wantErr: true,
		},
		{
			name:      "price rises with min_qty",
			wholesale: 115000,
			slabs: []models.PricingSlab{
				{MinQty: 5, Price: 110000},
				{MinQty: 10, Price: 112000},
			},
			wantErr: true,
		},
		{
			name:      "slab above wholesale price",
			wholesale: 115000,
			slabs: []models.PricingSlab{
				{MinQty: 5, Price: 116000},
			},
			wantErr: true,
		},
		{
			name:      "zero min_qty",
			wholesale: 115000,
			slabs: []models.PricingSlab{
				{MinQty: 0, Price: 112000},
			},
			wantErr: true,
		},
		{
			name:      "non-positive price",
			wholesale: 115000,
			slabs: []models.PricingSlab{
				{MinQty: 5, Price: 0},
			},
			wantErr: true,
		},
		{
			name:      "non-positive wholesale",
			wholesale: 0,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSlabs(tt.wholesale, tt.slabs)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
