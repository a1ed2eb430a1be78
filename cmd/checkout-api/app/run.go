package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/yenminh269/themepark-checkout/configs"
	"github.com/yenminh269/themepark-checkout/internal/adapter/cache"
	httpadapter "github.com/yenminh269/themepark-checkout/internal/adapter/http"
	"github.com/yenminh269/themepark-checkout/internal/adapter/http/middleware"
	"github.com/yenminh269/themepark-checkout/internal/adapter/kafka"
	"github.com/yenminh269/themepark-checkout/internal/adapter/parkapi"
	"github.com/yenminh269/themepark-checkout/internal/adapter/queue"
	"github.com/yenminh269/themepark-checkout/internal/adapter/repo"
	"github.com/yenminh269/themepark-checkout/internal/logging"
	"github.com/yenminh269/themepark-checkout/internal/security"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)
	logger.Info("checkout-api: starting up")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq producer
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	events, err := queue.NewCheckoutProducer(ch, cfg.Rabbit.Exchange, cfg.Rabbit.RoutingKey)
	if err != nil {
		return nil, nil, err
	}

	// card cipher for the journal
	cipher, err := security.NewCardCipher(cfg.Security.CardKeyB64)
	if err != nil {
		return nil, nil, err
	}

	// infra
	archive := cache.NewRedisCartArchive(rdb, cfg.Redis.CartTTL)
	stock := cache.NewRedisStockCache(rdb, cfg.Redis.StockTTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	journal := repo.NewMySQLCheckoutJournal(db, cipher)
	parkClient := parkapi.New(cfg.ParkAPI.BaseURL, cfg.ParkAPI.Timeout)

	// stock feed keeps the soft-check cache fresh
	if err := startStockListener(cfg, stock); err != nil {
		return nil, nil, err
	}

	// engine
	guard := usecase.NewInventoryGuard(cfg.Checkout.RideLimit, stock)
	cart := usecase.NewCartStore(guard, archive)
	checkout := usecase.NewCheckout(cart, parkClient, journal, idem, events,
		cfg.TaxRate(), cfg.Checkout.RequestTimeout)

	// handlers + router + middleware
	ch2 := httpadapter.NewCartHandler(cart)
	co := httpadapter.NewCheckoutHandler(checkout, journal)
	th := httpadapter.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(ch2, co, th, authz)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		_ = ch.Close()
		_ = conn.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func startStockListener(cfg configs.Config, stock usecase.StockWriter) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("kafka.NewGroup: %w", err)
	}

	h := kafka.NewStockChangedHandler(stock)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle)
	consumer.Logger = logging.New("kafka")

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logging.New("kafka").Error("stock listener stopped", "error", err)
		}
	}()
	return nil
}
