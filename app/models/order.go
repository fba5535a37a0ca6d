package models

import "time"

// Order is an immutable ledger entry written by a successful reservation.
// ProductName is a snapshot taken at purchase time.
type Order struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    uint      `gorm:"not null;index"           json:"product_id"`
	ProductName  string    `gorm:"size:255;not null"        json:"product_name"`
	CustomerName string    `gorm:"size:255;not null"        json:"customer_name"`
	Phone        string    `gorm:"size:64;not null"         json:"phone"`
	Address      string    `gorm:"type:text;not null"       json:"address"`
	Quantity     int       `gorm:"not null"                 json:"quantity"`
	OrderDate    time.Time `gorm:"not null;index"           json:"order_date"`
}

func (Order) TableName() string { return "orders" }

// Customer holds the buyer fields copied onto an Order.
type Customer struct {
	Name    string `json:"customer_name" validate:"required,max=255"`
	Phone   string `json:"phone"         validate:"required,max=64"`
	Address string `json:"address"       validate:"required"`
}
