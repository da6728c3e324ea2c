package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bittumobiles/wholesale_shop/internal/models"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.OrderStatusPending, models.OrderStatusPacked, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusPacked, models.OrderStatusShipped, true},
		{models.OrderStatusPacked, models.OrderStatusCancelled, true},
		{models.OrderStatusPacked, models.OrderStatusDelivered, false},
		{models.OrderStatusPacked, models.OrderStatusPending, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusShipped, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	t.Parallel()

	all := []string{
		models.OrderStatusPending,
		models.OrderStatusPacked,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}

	for _, to := range all {
		assert.False(t, CanTransition(models.OrderStatusDelivered, to), "Delivered -> %s", to)
		assert.False(t, CanTransition(models.OrderStatusCancelled, to), "Cancelled -> %s", to)
	}
}

func TestKnownStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, KnownStatus(models.OrderStatusPending))
	assert.True(t, KnownStatus(models.OrderStatusCancelled))
	assert.False(t, KnownStatus("Returned"))
	assert.False(t, KnownStatus(""))
	assert.False(t, KnownStatus("pending"))
}
