package services

import (
	"context"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/app/repositories"
	"github.com/shashiranjanraj/giftwheels/pkg/event"
)

// CatalogService runs the admin catalog writes and announces their stock
// changes on the bus.
type CatalogService struct {
	products *repositories.ProductRepository
	bus      *event.Bus
}

func NewCatalogService(products *repositories.ProductRepository, bus *event.Bus) *CatalogService {
	return &CatalogService{products: products, bus: bus}
}

// AddProduct stores a new product.
func (s *CatalogService) AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	p, err := s.products.Add(ctx, in)
	if err != nil {
		return models.Product{}, err
	}
	PublishStockChanged(ctx, s.bus, models.StockChanged{ProductID: p.ID, Stock: p.StockQuantity, Reason: models.ReasonCreated})
	return p, nil
}

// SetStock overwrites a product's stock outside the reservation protocol.
func (s *CatalogService) SetStock(ctx context.Context, id uint, qty int) (models.Product, error) {
	p, err := s.products.SetStock(ctx, id, qty)
	if err != nil {
		return models.Product{}, err
	}
	PublishStockChanged(ctx, s.bus, models.StockChanged{ProductID: p.ID, Stock: p.StockQuantity, Reason: models.ReasonAdmin})
	return p, nil
}
