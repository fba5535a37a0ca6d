package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, now: time.Now}
}

// StockSummary holds the catalog counters shown on the admin dashboard.
type StockSummary struct {
	Products     int64 `json:"products"`
	OutOfStock   int64 `json:"out_of_stock"`
	LowInventory int64 `json:"low_inventory"`
}

// List returns every product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).Order("id desc").Find(&products).Error
	if err != nil {
		return nil, storeErr("products: list", err)
	}
	return products, nil
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, storeErr("products: find", err)
}

// Add validates in and inserts a new product. The store assigns the id and
// created_at.
func (r *ProductRepository) Add(ctx context.Context, in models.ProductInput) (models.Product, error) {
	p := models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Tags:          models.ParseTags(in.Tags),
		Price:         in.Price.Round(2),
		StockQuantity: in.StockQuantity,
		ImageURL:      strings.TrimSpace(in.ImageURL),
		CreatedAt:     r.now(),
	}

	fields := map[string]string{}
	if p.Name == "" {
		fields["name"] = "name is required"
	} else if utf8.RuneCountInString(p.Name) > models.MaxNameLength {
		fields["name"] = fmt.Sprintf("name may not be longer than %d characters", models.MaxNameLength)
	}
	if p.Description == "" {
		fields["description"] = "description is required"
	}
	if p.Price.IsNegative() {
		fields["price"] = "price must be at least 0"
	} else if p.Price.GreaterThan(models.MaxPrice) {
		fields["price"] = "price may not be greater than " + models.MaxPrice.StringFixed(2)
	}
	if p.StockQuantity < 0 {
		fields["stock_quantity"] = "stock_quantity must be at least 0"
	}
	if len(fields) > 0 {
		return models.Product{}, &models.ValidationError{Fields: fields}
	}

	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Product{}, storeErr("products: add", err)
	}

	logger.WithCtx(ctx).Info("product added", "product_id", p.ID, "stock", p.StockQuantity)
	return p, nil
}

// SetStock overwrites the stock of a product. It bypasses the reservation
// protocol and is meant for admin corrections only.
func (r *ProductRepository) SetStock(ctx context.Context, id uint, qty int) (models.Product, error) {
	if qty < 0 {
		return models.Product{}, models.ErrInvalidQuantity
	}

	var p models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Update("stock_quantity", qty).Error; err != nil {
			return err
		}
		p.StockQuantity = qty
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, models.ErrNotFound
		}
		return models.Product{}, storeErr("products: set stock", err)
	}

	logger.WithCtx(ctx).Info("stock overwritten", "product_id", id, "stock", qty)
	return p, nil
}

// StockSummary counts all products, sold-out products and products with
// 1..lowThreshold units left.
func (r *ProductRepository) StockSummary(ctx context.Context, lowThreshold int) (StockSummary, error) {
	var s StockSummary
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select(`COUNT(*) AS products,
			COALESCE(SUM(CASE WHEN stock_quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN stock_quantity > 0 AND stock_quantity <= ? THEN 1 ELSE 0 END), 0) AS low_inventory`,
			lowThreshold).
		Scan(&s).Error
	return s, storeErr("products: stock summary", err)
}
