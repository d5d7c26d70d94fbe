// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/srvk/hardware-rental/internal/config"
	"github.com/srvk/hardware-rental/internal/handler"
	"github.com/srvk/hardware-rental/internal/middleware"
	"github.com/srvk/hardware-rental/internal/model"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes and the /v1/me
// endpoint. Unauthenticated operations live under /v1/auth; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public browse endpoints. Catalog
// reads go through the Redis response cache when one is configured;
// a nil client disables caching transparently.
func RegisterCatalog(e *echo.Echo, a *handler.AssetHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/assets", a.List, cached)
	e.GET("/v1/assets/:id", a.Get, cached)
}

// RegisterCustomer registers cart, checkout, order history and
// reservation endpoints. All of them require an access token with
// the CUSTOMER or ADMIN role.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, checkout *handler.CheckoutHandler, orders *handler.OrderHandler, reservations *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))

	g.POST("/cart/products", cart.AddProduct)
	g.POST("/cart/rentals", cart.AddRental)
	g.GET("/cart", cart.Get)
	g.DELETE("/cart/products/:asset_id", cart.RemoveProduct)
	g.DELETE("/cart/rentals/:asset_id", cart.RemoveRental)

	g.POST("/checkout", checkout.Checkout)
	g.GET("/orders", orders.List)

	g.POST("/reservations", reservations.Book)
	g.GET("/reservations", reservations.List)
	g.GET("/reservations/:id", reservations.Get)
	g.PATCH("/reservations/:id", reservations.Update)
	g.DELETE("/reservations/:id", reservations.Delete)
}

// RegisterAdmin registers fleet management endpoints, restricted to
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AssetHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/assets", a.Create)
	g.PUT("/assets/:id", a.Update)
	g.DELETE("/assets/:id", a.Delete)
	g.GET("/assets/:id/reservations", a.Bookings)
}
