// Package indexer keeps the Elasticsearch product index in sync with the
// catalog by consuming product_events. Running it separately from the API
// server keeps catalog writes fast and lets the index lag briefly instead
// of failing the write.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/service/search"
)

type productEvent struct {
	Type      string `json:"type"`
	ProductID uint   `json:"productID"`
}

type Indexer struct {
	DB     *gorm.DB
	ES     *elasticsearch.Client
	Reader *kafka.Reader
	Index  string
	Log    *slog.Logger
}

// Run consumes until ctx is cancelled. A malformed or unprocessable event
// is logged and skipped; index errors are retried on the next event of the
// same product, not replayed.
func (ix *Indexer) Run(ctx context.Context) error {
	for {
		msg, err := ix.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var event productEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			ix.Log.Warn("skipping malformed event", "error", err)
			continue
		}

		if err := ix.handle(ctx, event); err != nil {
			ix.Log.Error("index update failed", "type", event.Type, "product_id", event.ProductID, "error", err)
		}
	}
}

func (ix *Indexer) handle(ctx context.Context, event productEvent) error {
	switch event.Type {
	case "product_created", "product_updated", "review_added":
		var product models.Product
		if err := ix.DB.WithContext(ctx).Preload("Slabs").First(&product, event.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// deleted between event and consumption
				return search.DeleteProduct(ctx, ix.ES, ix.Index, event.ProductID)
			}
			return err
		}
		return search.IndexProduct(ctx, ix.ES, ix.Index, product)
	case "product_deleted":
		return search.DeleteProduct(ctx, ix.ES, ix.Index, event.ProductID)
	default:
		return nil
	}
}
