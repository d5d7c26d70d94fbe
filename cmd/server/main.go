package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/srvk/hardware-rental/internal/config"
	"github.com/srvk/hardware-rental/internal/database"
	"github.com/srvk/hardware-rental/internal/handler"
	"github.com/srvk/hardware-rental/internal/middleware"
	"github.com/srvk/hardware-rental/internal/payment"
	"github.com/srvk/hardware-rental/internal/queue"
	"github.com/srvk/hardware-rental/internal/repository"
	"github.com/srvk/hardware-rental/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate
	// limiting without touching the request path.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	assets := repository.NewAssetRepo(db)
	carts := repository.NewCartRepo(db)
	reservations := repository.NewReservationRepo(db)
	orders := repository.NewOrderRepo(db)

	gateway := payment.NewMockGateway()

	authH := handler.NewAuthHandler(cfg, users)
	assetH := handler.NewAssetHandler(assets, reservations)
	cartH := handler.NewCartHandler(carts, assets)
	checkoutH := handler.NewCheckoutHandler(users, assets, carts, reservations, orders, gateway)
	orderH := handler.NewOrderHandler(orders, reservations)
	reservationH := handler.NewReservationHandler(assets, reservations)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, assetH, config.LoadCacheConfig(), rdb)
	router.RegisterCustomer(e, cartH, checkoutH, orderH, reservationH, cfg.JWTSecret)
	router.RegisterAdmin(e, assetH, cfg.JWTSecret)

	// Background consumer appends placed orders to logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
