package services

import (
	"context"

	"github.com/shashiranjanraj/giftwheels/app/repositories"
)

// Stats are the admin dashboard counters.
type Stats struct {
	TotalSales   int64 `json:"total_sales"`
	Products     int64 `json:"products"`
	OutOfStock   int64 `json:"out_of_stock"`
	LowInventory int64 `json:"low_inventory"`
}

type DashboardService struct {
	products     *repositories.ProductRepository
	orders       *repositories.OrderRepository
	lowThreshold int
}

func NewDashboardService(products *repositories.ProductRepository, orders *repositories.OrderRepository, lowThreshold int) *DashboardService {
	return &DashboardService{products: products, orders: orders, lowThreshold: lowThreshold}
}

// Stats counts orders and classifies the catalog by stock level. Low
// inventory means 1..lowThreshold units.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	sales, err := s.orders.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	summary, err := s.products.StockSummary(ctx, s.lowThreshold)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalSales:   sales,
		Products:     summary.Products,
		OutOfStock:   summary.OutOfStock,
		LowInventory: summary.LowInventory,
	}, nil
}
