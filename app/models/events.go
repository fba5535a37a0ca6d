package models

// EventStockChanged is published after any write that changes a product's
// stock, including the insert of a new product.
const EventStockChanged = "stock.changed"

// Reasons carried by StockChanged.
const (
	ReasonOrder   = "order"
	ReasonAdmin   = "admin"
	ReasonCreated = "created"
)

// StockChanged tells open views that a product should be re-read.
type StockChanged struct {
	ProductID uint   `json:"product_id"`
	Stock     int    `json:"stock"`
	Reason    string `json:"reason"`
}
