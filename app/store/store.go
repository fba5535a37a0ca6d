// Package store opens the GiftWheels database and assembles the components
// that work on it.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/repositories"
	"github.com/shashiranjanraj/giftwheels/app/services"
	_ "github.com/shashiranjanraj/giftwheels/database/migrations"
	"github.com/shashiranjanraj/giftwheels/database/seeders"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
	"github.com/shashiranjanraj/giftwheels/pkg/event"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
	"github.com/shashiranjanraj/giftwheels/pkg/migration"
)

// Options selects the database and the dashboard threshold.
type Options struct {
	Driver            string
	DSN               string
	LowStockThreshold int
}

// Store bundles the database handle with everything built on it.
type Store struct {
	DB  *gorm.DB
	Bus *event.Bus

	Products *repositories.ProductRepository
	Orders   *repositories.OrderRepository
	Messages *repositories.MessageRepository

	Reservations *services.ReservationService
	Catalog      *services.CatalogService
	Dashboard    *services.DashboardService
}

// Open connects, applies pending migrations and seeds an empty catalog.
func Open(ctx context.Context, opts Options) (*Store, error) {
	db, err := database.Connect(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	ran, err := migration.New(db).Run(ctx)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("store: migrate: %w", database.Unavailable(err))
	}
	if len(ran) > 0 {
		logger.Info("store: schema upgraded", "applied", ran)
	}

	s := New(db, event.NewBus(), opts.LowStockThreshold)
	if err := s.SeedIfEmpty(ctx); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return s, nil
}

// New assembles a Store over an already migrated database.
func New(db *gorm.DB, bus *event.Bus, lowStockThreshold int) *Store {
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)

	return &Store{
		DB:           db,
		Bus:          bus,
		Products:     products,
		Orders:       orders,
		Messages:     repositories.NewMessageRepository(db),
		Reservations: services.NewReservationService(db, bus),
		Catalog:      services.NewCatalogService(products, bus),
		Dashboard:    services.NewDashboardService(products, orders, lowStockThreshold),
	}
}

// SeedIfEmpty runs the registered seeders. The catalog seeder only inserts
// into an empty products table, so calling this again is a no-op.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	if err := seeders.RunAll(ctx, s.DB); err != nil {
		return fmt.Errorf("store: seed: %w", database.Unavailable(err))
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return database.Close(s.DB)
}
