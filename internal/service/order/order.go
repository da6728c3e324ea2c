package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/pricing"
	"github.com/bittumobiles/wholesale_shop/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")          // 400
	ErrEmptyCart         = errors.New("empty cart")          // 400
	ErrNotFound          = errors.New("not found")           // 404
	ErrInvalidTransition = errors.New("invalid transition")  // 409
)

// GST applied on top of the wholesale subtotal. Persisted order totals are
// tax exclusive; the taxed grand total is computed for display only.
const TaxRate = "0.18"

type OrderService struct {
	DB    *gorm.DB
	Carts repo.CartStore
}

// Checkout turns the user's session cart into an order. Every line is
// repriced against the current catalog slabs, item name and unit price are
// snapshotted so later catalog edits cannot alter the order, and the cart
// is cleared only after the order row is committed.
func (s *OrderService) Checkout(ctx context.Context, user models.User, shippingAddress string) (*models.Order, error) {
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address required", ErrValidation)
	}

	lines, err := s.Carts.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no items in cart", ErrEmptyCart)
	}

	order := &models.Order{
		ID:              "ord-" + uuid.NewString(),
		UserID:          user.ID,
		UserName:        user.Name,
		Status:          models.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))

		for _, line := range lines {
			var p models.Product
			if err := tx.Preload("Slabs").First(&p, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrNotFound, line.ProductID)
				}
				return err
			}

			unitPrice, err := pricing.ResolveUnitPrice(p.WholesalePrice, p.Slabs, int(line.Quantity))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrValidation, err)
			}

			lineTotal := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)

			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				UnitPrice:   unitPrice,
				LineTotal:   lineTotal.InexactFloat64(),
			})
		}

		order.Items = items
		order.TotalAmount = total.InexactFloat64()
		return tx.Create(order).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.Carts.Clear(ctx, user.ID); err != nil {
		return order, fmt.Errorf("order created but cart not cleared: %w", err)
	}
	return order, nil
}

// UpdateStatus applies one lifecycle transition. A request outside the
// transition table fails and leaves the order untouched; status is the
// only mutable field of a persisted order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus string) (*models.Order, error) {
	if !KnownStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	var order models.Order
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
			}
			return err
		}
		if !CanTransition(order.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus).Error; err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

// ListOrders returns the user's orders newest-first.
func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := s.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID)
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders is the admin view, newest-first across all users.
func (s *OrderService) ListAllOrders(ctx context.Context, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := s.DB.WithContext(ctx).Preload("Items")
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GrandTotal is the tax-inclusive display total for a tax-exclusive
// persisted amount.
func GrandTotal(totalAmount float64) float64 {
	rate := decimal.RequireFromString(TaxRate)
	total := decimal.NewFromFloat(totalAmount)
	return total.Add(total.Mul(rate)).Round(2).InexactFloat64()
}
