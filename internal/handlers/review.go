package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/logging"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/service/rating"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
)

// AddReview appends a review and recomputes the product's aggregate
// rating in the same transaction. A retailer may review a product once,
// and only after a delivered order containing it.
func (h *ProductHandler) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_review")

	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var product models.Product
	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Reviews").First(&product, id).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		var delivered int64
		if err := tx.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
				userID, models.OrderStatusDelivered, product.ID).
			Count(&delivered).Error; err != nil {
			return err
		}
		if delivered == 0 {
			return echo.NewHTTPError(http.StatusForbidden, "only delivered purchases can be reviewed")
		}

		for _, r := range product.Reviews {
			if r.UserID == userID {
				return echo.NewHTTPError(http.StatusConflict, "product already reviewed")
			}
		}

		review := models.Review{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			UserID:    userID,
			UserName:  user.Name,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		product.Reviews = append(product.Reviews, review)
		product.Rating = rating.Average(product.Reviews)
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("rating", product.Rating).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			l.Warn("add_review_failed", "status", he.Code, "error", txErr)
			return he
		}
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			l.Warn("add_review_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_review_failed", "status", 500, "reason", "db error", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add review")
	}

	h.publish(c, map[string]any{
		"type":      "review_added",
		"productID": product.ID,
		"userID":    userID,
		"rating":    product.Rating,
	})
	l.Info("add_review_success", "product_id", product.ID, "rating", product.Rating)
	return c.JSON(http.StatusCreated, product)
}
