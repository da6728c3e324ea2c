package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/logging"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/mykafka"
	"github.com/bittumobiles/wholesale_shop/internal/service/order"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
	"github.com/bittumobiles/wholesale_shop/internal/util"
)

type OrderHandler struct {
	DB       *gorm.DB
	Svc      *order.OrderService
	Producer mykafka.Publisher
}

func (h *OrderHandler) publishOrder(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		l.Error("checkout_failed", "status", 500, "reason", "cannot load user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}

	o, err := h.Svc.Checkout(ctx, user, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			l.Warn("checkout_failed", "status", 400, "reason", "empty cart")
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		case errors.Is(err, order.ErrValidation):
			l.Warn("checkout_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			l.Warn("checkout_failed", "status", 404, "reason", "product missing", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			l.Error("checkout_failed", "status", 500, "reason", "internal error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create order")
		}
	}

	h.publishOrder(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": o.ID,
		"total":   o.TotalAmount,
	})
	l.Info("checkout_success", "order_id", o.ID, "total", o.TotalAmount)
	return c.JSON(http.StatusCreated, transport.OrderResponse{
		Order:      *o,
		GrandTotal: order.GrandTotal(o.TotalAmount),
	})
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		l.Error("get_orders_failed", "status", 500, "reason", "db error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, orderResponses(orders))
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_all_orders")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListAllOrders(ctx, offset, limit)
	if err != nil {
		l.Error("get_all_orders_failed", "status", 500, "reason", "db error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, orderResponses(orders))
}

// UpdateStatus drives the admin side of the order lifecycle. The
// cancellation confirmation lives in the UI; any structurally valid
// transition request is accepted here.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID := c.Param("id")

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := h.Svc.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrValidation):
			l.Warn("update_status_failed", "status", 400, "reason", "unknown status", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			l.Warn("update_status_failed", "status", 404, "reason", "order not found")
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrInvalidTransition):
			l.Warn("update_status_failed", "status", 409, "reason", "invalid transition", "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			l.Error("update_status_failed", "status", 500, "reason", "internal error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update order")
		}
	}

	h.publishOrder(c, map[string]any{
		"type":    "order_status_updated",
		"userID":  o.UserID,
		"orderID": o.ID,
		"status":  o.Status,
	})
	l.Info("update_status_success", "order_id", o.ID, "new_status", o.Status)
	return c.JSON(http.StatusOK, transport.OrderResponse{
		Order:      *o,
		GrandTotal: order.GrandTotal(o.TotalAmount),
	})
}

func orderResponses(orders []models.Order) []transport.OrderResponse {
	out := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, transport.OrderResponse{
			Order:      o,
			GrandTotal: order.GrandTotal(o.TotalAmount),
		})
	}
	return out
}
