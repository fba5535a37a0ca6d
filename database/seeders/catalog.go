package seeders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
)

func init() {
	Register("catalog", CatalogIfEmpty)
}

// DemoCatalog returns the two demonstration products. Their created_at values
// are 100s apart so newest-first ordering is deterministic.
func DemoCatalog(now time.Time) []models.Product {
	return []models.Product{
		{
			Name:          "Porsche 911 GT3 RS",
			Description:   "The pinnacle of precision. 1/64 scale model featuring the iconic rear wing and magnesium wheels detail.",
			Tags:          []string{"euro", "porsche", "track"},
			Price:         decimal.RequireFromString("75.00"),
			StockQuantity: 8,
			ImageURL:      "https://images.unsplash.com/photo-1503376780353-7e6692767b70?auto=format&fit=crop&q=80&w=1200",
			CreatedAt:     now,
		},
		{
			Name:          "Datsun Bluebird 510",
			Description:   "Vintage racing heritage. Detailed livery and lowered stance for the classic JDM look.",
			Tags:          []string{"jdm", "classic", "nissan"},
			Price:         decimal.RequireFromString("45.99"),
			StockQuantity: 3,
			ImageURL:      "https://images.unsplash.com/photo-1583121274602-3e2820c69888?auto=format&fit=crop&q=80&w=1200",
			CreatedAt:     now.Add(-100 * time.Second),
		},
	}
}

// CatalogIfEmpty inserts DemoCatalog when the products table has no rows.
// The count and the insert share one transaction so two processes opening a
// fresh file cannot both seed it.
func CatalogIfEmpty(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		rows := DemoCatalog(time.Now())
		return tx.Create(&rows).Error
	})
}
