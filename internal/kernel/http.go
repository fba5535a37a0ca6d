// Package kernel assembles the HTTP handler: global middleware, the metrics
// endpoint and the API routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/giftwheels/app/routes"
	"github.com/shashiranjanraj/giftwheels/config"
	"github.com/shashiranjanraj/giftwheels/pkg/metrics"
	"github.com/shashiranjanraj/giftwheels/pkg/middleware"
	"github.com/shashiranjanraj/giftwheels/pkg/reqid"
	"github.com/shashiranjanraj/giftwheels/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router. Global middleware, outermost first:
//
//  1. metrics   accurate total latency
//  2. recovery  a panic becomes a 500
//  3. reqid     before anything logs
//  4. logger    logs with the request_id
//  5. CORS
func NewHTTPKernel(deps routes.Deps) (*HTTPKernel, error) {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.StorefrontCORS(config.CORSOrigins())))

	r.Get("/metrics", "metrics", metrics.Handler())

	if err := routes.RegisterAPI(r, deps); err != nil {
		return nil, err
	}
	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Routes lists the registered routes.
func (k *HTTPKernel) Routes() []router.RouteInfo {
	return k.router.Routes()
}
