package cart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bittumobiles/wholesale_shop/internal/repo"
	"github.com/bittumobiles/wholesale_shop/internal/service/order"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
)

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func requireUserID(c echo.Context) (uint, error) {
	userID, ok := c.Get("userID").(uint)
	if !ok || userID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return userID, nil
}

func cartResponse(lines []repo.CartLine) transport.CartResponse {
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}
	if lines == nil {
		lines = []repo.CartLine{}
	}
	return transport.CartResponse{
		Items:      lines,
		Subtotal:   subtotal.InexactFloat64(),
		GrandTotal: order.GrandTotal(subtotal.InexactFloat64()),
	}
}
