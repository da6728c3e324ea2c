package order

import (
	"github.com/bittumobiles/wholesale_shop/internal/models"
)

// transitions is the full order lifecycle: a linear happy path
// Pending -> Packed -> Shipped -> Delivered, with cancellation possible
// only while the order has not shipped. Delivered and Cancelled are
// terminal.
var transitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:    {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

func KnownStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
