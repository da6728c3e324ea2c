package transport

import (
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/repo"
)

type RegisterRequest struct {
	Phone     string `json:"phone"      validate:"required,numeric,len=10"`
	Name      string `json:"name"       validate:"required"`
	ShopName  string `json:"shop_name"`
	GSTNumber string `json:"gst_number"`
	Pin       string `json:"pin"        validate:"required,numeric,len=6"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required"`
	Pin   string `json:"pin"   validate:"required"`
}

type SlabPayload struct {
	MinQty uint    `json:"min_qty" validate:"required,min=1"`
	Price  float64 `json:"price"   validate:"required,gt=0"`
}

type ProductRequest struct {
	Name           string        `json:"name"            validate:"required"`
	Brand          string        `json:"brand"           validate:"required"`
	Category       string        `json:"category"        validate:"required,oneof=Mobile Accessory"`
	RAM            string        `json:"ram"`
	Storage        string        `json:"storage"`
	Battery        string        `json:"battery"`
	Processor      string        `json:"processor"`
	Color          string        `json:"color"`
	Description    string        `json:"description"`
	Image          string        `json:"image"`
	BasePrice      float64       `json:"base_price"      validate:"required,gt=0"`
	WholesalePrice float64       `json:"wholesale_price" validate:"required,gt=0"`
	Stock          uint          `json:"stock"`
	IsNewArrival   bool          `json:"is_new_arrival"`
	Slabs          []SlabPayload `json:"slabs"           validate:"dive"`
}

type ReviewRequest struct {
	Rating  float64 `json:"rating"  validate:"required,min=1,max=5"`
	Comment string  `json:"comment"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PriceQuote struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// CartResponse carries the tax-inclusive display total alongside the
// persisted-style subtotal; only the subtotal ever reaches an order row.
type CartResponse struct {
	Items      []repo.CartLine `json:"items"`
	Subtotal   float64         `json:"subtotal"`
	GrandTotal float64         `json:"grand_total"`
}

type OrderResponse struct {
	models.Order
	GrandTotal float64 `json:"grand_total"`
}
