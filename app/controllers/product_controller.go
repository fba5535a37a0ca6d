package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/pkg/auth"
	"github.com/shashiranjanraj/giftwheels/pkg/bind"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
)

type ProductController struct {
	store        *store.Store
	lowThreshold int
}

func NewProductController(s *store.Store, lowThreshold int) *ProductController {
	return &ProductController{store: s, lowThreshold: lowThreshold}
}

// Index lists the catalog, newest first.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.store.Products.List(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, c.lowThreshold))
	}
	response.Success(w, views)
}

// Show returns one product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	p, err := c.store.Products.Find(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Success(w, newProductView(p, c.lowThreshold))
}

// Store adds a product to the catalog.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.store.Catalog.AddProduct(r.Context(), in)
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Created(w, newProductView(p, c.lowThreshold))
}

type stockRequest struct {
	StockQuantity *int `json:"stock_quantity"`
}

// UpdateStock overwrites a product's stock.
func (c *ProductController) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var in stockRequest
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if errs == nil && in.StockQuantity == nil {
		errs = map[string]string{"stock_quantity": "stock_quantity is required"}
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.store.Catalog.SetStock(r.Context(), id, *in.StockQuantity)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if session, ok := auth.FromCtx(r.Context()); ok {
		logger.WithCtx(r.Context()).Info("stock set by admin", "admin", session.Username, "product_id", p.ID, "stock", p.StockQuantity)
	}
	response.Success(w, newProductView(p, c.lowThreshold))
}
