package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/giftwheels/app/store"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
)

type HealthController struct {
	store *store.Store
}

func NewHealthController(s *store.Store) *HealthController {
	return &HealthController{store: s}
}

// Check pings the database.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := c.store.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		response.ServiceUnavailable(w)
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
