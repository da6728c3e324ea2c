// Package seed loads the demo catalog and accounts used by fresh
// installations and local development.
package seed

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/hash"
	"github.com/bittumobiles/wholesale_shop/internal/models"
)

func demoProducts() []models.Product {
	return []models.Product{
		{
			Name:           "Galaxy S24 Ultra",
			Brand:          "Samsung",
			Category:       "Mobile",
			RAM:            "12GB",
			Storage:        "256GB",
			Color:          "Titanium Grey",
			Description:    "The ultimate AI phone with Snapdragon 8 Gen 3.",
			BasePrice:      129999,
			WholesalePrice: 115000,
			Stock:          50,
			IsNewArrival:   true,
			Slabs: []models.PricingSlab{
				{MinQty: 5, Price: 112000},
				{MinQty: 10, Price: 110000},
			},
		},
		{
			Name:           "iPhone 15 Pro",
			Brand:          "Apple",
			Category:       "Mobile",
			RAM:            "8GB",
			Storage:        "128GB",
			Color:          "Natural Titanium",
			Description:    "Forged in titanium. A17 Pro chip.",
			BasePrice:      134900,
			WholesalePrice: 128000,
			Stock:          30,
			IsNewArrival:   true,
			Slabs: []models.PricingSlab{
				{MinQty: 3, Price: 127000},
				{MinQty: 10, Price: 125000},
			},
		},
		{
			Name:           "Redmi Note 13 Pro",
			Brand:          "Xiaomi",
			Category:       "Mobile",
			RAM:            "8GB",
			Storage:        "256GB",
			Color:          "Midnight Black",
			Description:    "Super-clear 200MP camera with OIS.",
			BasePrice:      24999,
			WholesalePrice: 21500,
			Stock:          100,
			Slabs: []models.PricingSlab{
				{MinQty: 10, Price: 21000},
				{MinQty: 20, Price: 20500},
			},
		},
		{
			Name:           "OnePlus 12R",
			Brand:          "OnePlus",
			Category:       "Mobile",
			RAM:            "16GB",
			Storage:        "256GB",
			Color:          "Cool Blue",
			Description:    "Smooth beyond belief. 5500mAh battery.",
			BasePrice:      45999,
			WholesalePrice: 41000,
			Stock:          45,
			Slabs: []models.PricingSlab{
				{MinQty: 5, Price: 40500},
				{MinQty: 15, Price: 39500},
			},
		},
	}
}

// Run inserts the demo catalog and an admin account into an empty
// database. A database that already has products is left untouched.
func Run(db *gorm.DB, adminPhone, adminPin string) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range demoProducts() {
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	pinHash, err := hash.HashPin(adminPin)
	if err != nil {
		return fmt.Errorf("hash admin pin: %w", err)
	}
	admin := models.User{
		Phone:   adminPhone,
		Name:    "Bittu Admin",
		PinHash: pinHash,
		Role:    "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
