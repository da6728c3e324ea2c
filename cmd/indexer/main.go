package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/bittumobiles/wholesale_shop/internal/config"
	"github.com/bittumobiles/wholesale_shop/internal/es"
	"github.com/bittumobiles/wholesale_shop/internal/indexer"
	"github.com/bittumobiles/wholesale_shop/internal/logging"
	"github.com/bittumobiles/wholesale_shop/internal/mykafka"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	reader := mykafka.NewReader(configuration.KAFKA_BROKERS, "product_events", "product-indexer")
	defer reader.Close()

	ix := &indexer.Indexer{
		DB:     db,
		ES:     esClient,
		Reader: reader,
		Index:  "products",
		Log:    logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("indexer started")
	if err := ix.Run(ctx); err != nil {
		log.Fatalf("indexer error: %v", err)
	}
	logger.Info("indexer stopped")
}
