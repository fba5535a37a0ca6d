package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
)

// OrderRepository is the read side of the order ledger. Orders are only
// written by the reservation engine.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns every order, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Order("id desc").Find(&orders).Error; err != nil {
		return nil, storeErr("orders: list", err)
	}
	return orders, nil
}

// ForProduct returns the orders of one product, newest first.
func (r *OrderRepository) ForProduct(ctx context.Context, productID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id desc").Find(&orders).Error
	if err != nil {
		return nil, storeErr("orders: for product", err)
	}
	return orders, nil
}

// Count returns the number of orders ever placed.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, storeErr("orders: count", err)
}
