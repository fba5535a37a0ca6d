package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/pkg/bind"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
)

type MessageController struct {
	store *store.Store
}

func NewMessageController(s *store.Store) *MessageController {
	return &MessageController{store: s}
}

type messageRequest struct {
	Name    string `json:"name"    validate:"required,max=255"`
	Phone   string `json:"phone"   validate:"required,max=64"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Store appends a contact message.
func (c *MessageController) Store(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	m, err := c.store.Messages.Submit(r.Context(), in.Name, in.Phone, in.Message)
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Created(w, m)
}

// Index lists the inbox, newest first.
func (c *MessageController) Index(w http.ResponseWriter, r *http.Request) {
	messages, err := c.store.Messages.List(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	response.Success(w, messages)
}
