package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/bittumobiles/wholesale_shop/internal/config"
	"github.com/bittumobiles/wholesale_shop/internal/es"
	"github.com/bittumobiles/wholesale_shop/internal/handlers"
	"github.com/bittumobiles/wholesale_shop/internal/handlers/cart"
	"github.com/bittumobiles/wholesale_shop/internal/logging"
	loggingmw "github.com/bittumobiles/wholesale_shop/internal/middleware/logging"
	"github.com/bittumobiles/wholesale_shop/internal/mykafka"
	"github.com/bittumobiles/wholesale_shop/internal/repo"
	"github.com/bittumobiles/wholesale_shop/internal/seed"
	"github.com/bittumobiles/wholesale_shop/internal/service/order"
	"github.com/bittumobiles/wholesale_shop/internal/service/token"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
	httpserver "github.com/bittumobiles/wholesale_shop/internal/transport/http"
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

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seed.Run(db, config.EnvDefault("ADMIN_PHONE", "9000000001"), config.EnvDefault("ADMIN_PIN", "123456")); err != nil {
			log.Fatalf("seed error: %v", err)
		}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	rdb := redis.NewClient(&redis.Options{
		Addr:     configuration.REDIS_ADDR,
		Password: configuration.REDIS_PASSWORD,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis ping error: %v", err)
	}
	carts := repo.NewRedisCartStore(rdb)

	prod := mykafka.NewProducer(configuration.KAFKA_BROKERS)

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	orderSvc := &order.OrderService{DB: db, Carts: carts}
	tokenSvc := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Validator = transport.NewValidator()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{DB: db, Svc: orderSvc, Producer: prod},
		CartHandler:    &cart.CartHandler{DB: db, Carts: carts, Producer: prod},
		TokenService:   tokenSvc,
		SearchHandler:  searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}
	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
