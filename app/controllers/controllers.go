// Package controllers translates HTTP requests into store operations and
// store errors into HTTP statuses.
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
	"github.com/shashiranjanraj/giftwheels/pkg/router"
)

// renderError writes the status that matches err.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		stockErr *models.StockError
		validErr *models.ValidationError
	)
	switch {
	case errors.As(err, &validErr):
		response.ValidationError(w, validErr.Fields)
	case errors.As(err, &stockErr):
		response.ErrorWith(w, http.StatusConflict, "Insufficient stock", map[string]interface{}{
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, models.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, models.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, models.ErrInvalidQuantity):
		response.ValidationError(w, map[string]string{"quantity": "quantity is out of range"})
	case errors.Is(err, models.ErrInvalidProduct):
		response.Error(w, http.StatusUnprocessableEntity, "Invalid product")
	case errors.Is(err, database.ErrStorageUnavailable):
		logger.WithCtx(r.Context()).Error("storage unavailable", "error", err)
		response.ServiceUnavailable(w)
	default:
		logger.WithCtx(r.Context()).Error("unhandled error", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// productID reads the {id} route parameter. A malformed id names no
// product, so it is reported as not found.
func productID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(router.Param(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, models.ErrNotFound
	}
	return uint(id), nil
}

// productView is a Product as the storefront shows it.
type productView struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Tags          []string        `json:"tags"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	StockStatus   string          `json:"stock_status"`
	InStock       bool            `json:"in_stock"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
}

func newProductView(p models.Product, lowThreshold int) productView {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return productView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Tags:          tags,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		StockStatus:   p.StockStatus(lowThreshold),
		InStock:       p.InStock(),
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
	}
}
