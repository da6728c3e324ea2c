package models

import (
	"time"
)

type Product struct {
	ID             uint          `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name           string        `gorm:"not null"                  json:"name"`
	Brand          string        `gorm:"not null"                  json:"brand"`
	Category       string        `gorm:"not null"                  json:"category"`
	RAM            string        `json:"ram,omitempty"`
	Storage        string        `json:"storage,omitempty"`
	Battery        string        `json:"battery,omitempty"`
	Processor      string        `json:"processor,omitempty"`
	Color          string        `json:"color,omitempty"`
	Description    string        `json:"description"`
	Image          string        `json:"image"`
	BasePrice      float64       `gorm:"not null"                  json:"base_price"`
	WholesalePrice float64       `gorm:"not null"                  json:"wholesale_price"`
	Stock          uint          `json:"stock"`
	IsNewArrival   bool          `gorm:"default:false"             json:"is_new_arrival"`
	Rating         float64       `gorm:"default:0"                 json:"rating"`
	Slabs          []PricingSlab `gorm:"constraint:OnDelete:CASCADE" json:"slabs"`
	Reviews        []Review      `gorm:"constraint:OnDelete:CASCADE" json:"reviews"`
}

type PricingSlab struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"                  json:"-"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_product_min_qty"  json:"-"`
	MinQty    uint    `gorm:"not null;uniqueIndex:idx_product_min_qty"  json:"min_qty"`
	Price     float64 `gorm:"not null"                                  json:"price"`
}

type Review struct {
	ID        string    `gorm:"primaryKey"                                json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_reviewer" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_product_reviewer" json:"user_id"`
	UserName  string    `gorm:"not null"                                  json:"user_name"`
	Rating    float64   `gorm:"not null;check:rating>=1 AND rating<=5"    json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"date"`
}

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string `gorm:"unique;not null"          json:"phone"`
	Name      string `gorm:"not null"                 json:"name"`
	ShopName  string `json:"shop_name,omitempty"`
	GSTNumber string `json:"gst_number,omitempty"`
	PinHash   string `gorm:"not null"                 json:"-"`
	Role      string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// Order statuses. Valid transitions between them are enforced by the order
// service, not the database.
const (
	OrderStatusPending   = "Pending"
	OrderStatusPacked    = "Packed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

type Order struct {
	ID              string      `gorm:"primaryKey"     json:"id"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	UserName        string      `gorm:"not null"       json:"user_name"`
	Status          string      `gorm:"not null"       json:"status"`
	TotalAmount     float64     `gorm:"not null"       json:"total_amount"`
	ShippingAddress string      `gorm:"not null"       json:"shipping_address"`
	CreatedAt       time.Time   `json:"date"`
	Items           []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a snapshot of a cart line at checkout time. Later catalog
// edits must not alter it.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"                json:"-"`
	OrderID     string  `gorm:"index;not null"            json:"-"`
	ProductID   uint    `gorm:"not null"                  json:"product_id"`
	ProductName string  `gorm:"not null"                  json:"product_name"`
	Quantity    uint    `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice   float64 `gorm:"not null"                  json:"unit_price"`
	LineTotal   float64 `gorm:"not null"                  json:"line_total"`
}
