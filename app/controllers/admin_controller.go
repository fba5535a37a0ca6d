package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/giftwheels/app/services"
	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/pkg/bind"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
)

type AdminController struct {
	store *store.Store
	auth  *services.AuthService
}

func NewAdminController(s *store.Store, auth *services.AuthService) *AdminController {
	return &AdminController{store: s, auth: auth}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges the admin credentials for a bearer token.
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tok, err := c.auth.Login(r.Context(), in.Username, in.Password)
	switch {
	case errors.Is(err, services.ErrLoginDisabled):
		response.Error(w, http.StatusForbidden, "Admin login is disabled")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		renderError(w, r, err)
	default:
		response.Success(w, tok)
	}
}

// Stats returns the dashboard counters.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.store.Dashboard.Stats(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Success(w, stats)
}
