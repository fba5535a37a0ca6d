package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/pkg/bind"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
)

type OrderController struct {
	store *store.Store
}

func NewOrderController(s *store.Store) *OrderController {
	return &OrderController{store: s}
}

type orderRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=255"`
	Phone        string `json:"phone"         validate:"required,max=64"`
	Address      string `json:"address"       validate:"required"`
	Quantity     int    `json:"quantity"`
}

// Store places an order for the product in the URL.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var in orderRequest
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if _, badQty := errs["quantity"]; badQty {
		renderError(w, r, models.ErrInvalidQuantity)
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	receipt, err := c.store.Reservations.PlaceOrder(r.Context(), id, in.Quantity, models.Customer{
		Name:    in.CustomerName,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Created(w, receipt)
}

// ForProduct lists the orders of one product, newest first.
func (c *OrderController) ForProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if _, err := c.store.Products.Find(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	orders, err := c.store.Orders.ForProduct(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Index lists the order ledger, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.store.Orders.List(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Success(w, orders)
}
