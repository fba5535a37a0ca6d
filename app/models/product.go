package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. StockQuantity never goes below zero.
type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name          string          `gorm:"size:255;not null;index"           json:"name"`
	Description   string          `gorm:"type:text;not null"                json:"description"`
	Tags          []string        `gorm:"serializer:json"                   json:"tags"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"       json:"price"`
	StockQuantity int             `gorm:"not null;default:0"                json:"stock_quantity"`
	ImageURL      string          `gorm:"type:text"                         json:"image_url"`
	CreatedAt     time.Time       `gorm:"not null;index;autoCreateTime"     json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Column limits of the products table.
const MaxNameLength = 255

// MaxPrice is the largest price a decimal(10,2) column holds.
var MaxPrice = decimal.New(9999999999, -2)

// InStock reports whether at least one unit can be ordered.
func (p Product) InStock() bool { return p.StockQuantity > 0 }

// Stock status labels shown next to a product.
const (
	StatusOutOfStock = "out_of_stock"
	StatusLowStock   = "low_stock"
	StatusInStock    = "in_stock"
)

// StockStatus classifies the stock level; low covers 1..lowThreshold units.
func (p Product) StockStatus(lowThreshold int) string {
	switch {
	case p.StockQuantity <= 0:
		return StatusOutOfStock
	case p.StockQuantity <= lowThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ProductInput is what an admin submits to add a product. Tags is the
// comma-separated text typed into the form.
type ProductInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Tags          string          `json:"tags"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
}

// ParseTags splits comma-separated text into trimmed, non-empty tags,
// dropping duplicates and keeping first-seen order.
func ParseTags(raw string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
