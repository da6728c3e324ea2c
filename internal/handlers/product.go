package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/logging"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/mykafka"
	"github.com/bittumobiles/wholesale_shop/internal/pricing"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
	"github.com/bittumobiles/wholesale_shop/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).Preload("Slabs").Preload("Reviews").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "reason", "db error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(ctx).Model(&models.Product{})
	if cat := c.QueryParam("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if brand := c.QueryParam("brand"); brand != "" {
		q = q.Where("brand = ?", brand)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		l.Error("get_products_failed", "status", 500, "reason", "cannot count products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count products")
	}

	var items []models.Product
	if err := q.Preload("Slabs").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		l.Error("get_products_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// QuotePrice resolves the slab price for a requested quantity. The product
// detail page, the quick-view modal and the cart steppers all use this one
// endpoint, so they can never disagree on a price.
func (h *ProductHandler) QuotePrice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.quote_price")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}
	qty, err := strconv.Atoi(c.QueryParam("qty"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "qty is not integer")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).Preload("Slabs").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	unitPrice, err := pricing.ResolveUnitPrice(product.WholesalePrice, product.Slabs, qty)
	if err != nil {
		l.Warn("quote_price_failed", "status", 400, "reason", "invalid quantity", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, transport.PriceQuote{
		ProductID: product.ID,
		Quantity:  qty,
		UnitPrice: unitPrice,
		LineTotal: unitPrice * float64(qty),
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	prod := productFromRequest(req)
	if err := pricing.ValidateSlabs(prod.WholesalePrice, prod.Slabs); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid slabs", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		l.Error("product_create_failed", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("product_patch_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	update := productFromRequest(req)
	if err := pricing.ValidateSlabs(update.WholesalePrice, update.Slabs); err != nil {
		l.Warn("product_patch_failed", "status", 400, "reason", "invalid slabs", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var prod models.Product
	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}

		prod.Name = update.Name
		prod.Brand = update.Brand
		prod.Category = update.Category
		prod.RAM = update.RAM
		prod.Storage = update.Storage
		prod.Battery = update.Battery
		prod.Processor = update.Processor
		prod.Color = update.Color
		prod.Description = update.Description
		prod.Image = update.Image
		prod.BasePrice = update.BasePrice
		prod.WholesalePrice = update.WholesalePrice
		prod.Stock = update.Stock
		prod.IsNewArrival = update.IsNewArrival
		if err := tx.Save(&prod).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", prod.ID).Delete(&models.PricingSlab{}).Error; err != nil {
			return err
		}
		for i := range update.Slabs {
			update.Slabs[i].ProductID = prod.ID
			if err := tx.Create(&update.Slabs[i]).Error; err != nil {
				return err
			}
		}
		prod.Slabs = update.Slabs
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			l.Warn("product_patch_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_patch_failed", "status", 500, "reason", "cannot update product", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	l.Info("patch_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("product_delete_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	res := h.DB.WithContext(ctx).Select("Slabs", "Reviews").Delete(&models.Product{ID: uint(id)})
	if res.Error != nil {
		l.Error("product_delete_failed", "status", 500, "reason", "cannot delete product", "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}
	if res.RowsAffected == 0 {
		l.Warn("product_delete_failed", "status", 404, "reason", "product not found")
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func productFromRequest(req transport.ProductRequest) models.Product {
	slabs := make([]models.PricingSlab, 0, len(req.Slabs))
	for _, s := range req.Slabs {
		slabs = append(slabs, models.PricingSlab{MinQty: s.MinQty, Price: s.Price})
	}
	return models.Product{
		Name:           req.Name,
		Brand:          req.Brand,
		Category:       req.Category,
		RAM:            req.RAM,
		Storage:        req.Storage,
		Battery:        req.Battery,
		Processor:      req.Processor,
		Color:          req.Color,
		Description:    req.Description,
		Image:          req.Image,
		BasePrice:      req.BasePrice,
		WholesalePrice: req.WholesalePrice,
		Stock:          req.Stock,
		IsNewArrival:   req.IsNewArrival,
		Slabs:          slabs,
	}
}
