package routes

import (
	"time"

	"github.com/shashiranjanraj/giftwheels/app/controllers"
	"github.com/shashiranjanraj/giftwheels/app/services"
	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/pkg/middleware"
	"github.com/shashiranjanraj/giftwheels/pkg/router"
)

// Deps is what the API routes are built from.
type Deps struct {
	Store        *store.Store
	Auth         *services.AuthService
	JWTSecret    []byte
	LowThreshold int
}

func RegisterAPI(r *router.Router, d Deps) error {
	products := controllers.NewProductController(d.Store, d.LowThreshold)
	orders := controllers.NewOrderController(d.Store)
	messages := controllers.NewMessageController(d.Store)
	admin := controllers.NewAdminController(d.Store, d.Auth)
	events := controllers.NewEventController(d.Store.Bus)
	health := controllers.NewHealthController(d.Store)

	graphql, err := controllers.NewGraphQLHandler(d.Store, d.LowThreshold)
	if err != nil {
		return err
	}

	r.Get("/healthz", "health", health.Check)
	r.Post("/graphql", "graphql", graphql)

	api := r.Group("/api")
	api.Get("/products", "products.index", products.Index)
	api.Get("/products/{id}", "products.show", products.Show)
	api.Post("/products/{id}/orders", "orders.store", orders.Store)
	api.Post("/messages", "messages.store", messages.Store)
	api.Get("/events", "events.stream", events.Stream)

	loginLimit := middleware.NewRateLimiter(10, time.Minute)
	api.Post("/admin/login", "admin.login", admin.Login, loginLimit.Middleware)

	// Tokens are only honoured while login is enabled.
	var secret []byte
	if d.Auth.Enabled() {
		secret = d.JWTSecret
	}
	protected := api.Group("/admin", middleware.Auth(secret))
	protected.Post("/products", "admin.products.store", products.Store)
	protected.Put("/products/{id}/stock", "admin.products.stock", products.UpdateStock)
	protected.Get("/orders", "admin.orders.index", orders.Index)
	protected.Get("/products/{id}/orders", "admin.products.orders", orders.ForProduct)
	protected.Get("/messages", "admin.messages.index", messages.Index)
	protected.Get("/stats", "admin.stats", admin.Stats)

	return nil
}
