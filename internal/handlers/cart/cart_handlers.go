package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/logging"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/mykafka"
	"github.com/bittumobiles/wholesale_shop/internal/pricing"
	"github.com/bittumobiles/wholesale_shop/internal/repo"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
)

type CartHandler struct {
	DB       *gorm.DB
	Carts    repo.CartStore
	Producer mykafka.Publisher
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	lines, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, cartResponse(lines))
}

// AddToCart merges the requested quantity into an existing line (or starts
// one) and reprices the whole line at its new quantity. Quantities below 1
// are clamped to 1, matching the storefront stepper.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).Preload("Slabs").First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("add_to_cart_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity += uint(req.Quantity)
			price, err := pricing.ResolveUnitPrice(product.WholesalePrice, product.Slabs, int(lines[i].Quantity))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			lines[i].UnitPrice = price
			merged = true
			break
		}
	}
	if !merged {
		price, err := pricing.ResolveUnitPrice(product.WholesalePrice, product.Slabs, req.Quantity)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		lines = append(lines, repo.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  uint(req.Quantity),
			UnitPrice: price,
		})
	}

	if err := h.Carts.Save(ctx, userID, lines); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": product.ID,
	})
	l.Info("add_to_cart_success", "user_id", userID, "product_id", product.ID)
	return c.JSON(http.StatusOK, cartResponse(lines))
}

// UpdateQuantity sets a line to an exact quantity, repricing it. A
// quantity below 1 removes the line, like the stepper in the cart page.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Quantity < 1 {
		return h.removeLine(c, userID, uint(productID))
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).Preload("Slabs").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == uint(productID) {
			price, err := pricing.ResolveUnitPrice(product.WholesalePrice, product.Slabs, req.Quantity)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			lines[i].Quantity = uint(req.Quantity)
			lines[i].UnitPrice = price
			found = true
			break
		}
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
	}

	if err := h.Carts.Save(ctx, userID, lines); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_quantity_updated",
		"userID":    userID,
		"productID": productID,
		"quantity":  req.Quantity,
	})
	l.Info("update_quantity_success", "user_id", userID, "product_id", productID)
	return c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	return h.removeLine(c, userID, uint(productID))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.Carts.Clear(ctx, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.JSON(http.StatusOK, cartResponse(nil))
}

func (h *CartHandler) removeLine(c echo.Context, userID, productID uint) error {
	ctx := c.Request().Context()

	lines, err := h.Carts.Get(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
	}

	if err := h.Carts.Save(ctx, userID, kept); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return c.JSON(http.StatusOK, cartResponse(kept))
}
