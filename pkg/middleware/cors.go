package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	Origins []string // "*" allows any origin
	Methods []string
	Headers []string
	Expose  []string
	MaxAge  int // preflight cache, seconds
}

// StorefrontCORS lets the storefront and admin pages call the API from the
// given origins. An empty list allows any origin.
func StorefrontCORS(origins []string) CORSOptions {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSOptions{
		Origins: origins,
		Methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		Headers: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		Expose:  []string{"X-Request-ID"},
		MaxAge:  300,
	}
}

// CORS adds Cross-Origin Resource Sharing headers and answers preflights.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	anyOrigin := false
	allowed := make(map[string]bool, len(opts.Origins))
	for _, o := range opts.Origins {
		if o == "*" {
			anyOrigin = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	methods := strings.Join(opts.Methods, ", ")
	headers := strings.Join(opts.Headers, ", ")
	expose := strings.Join(opts.Expose, ", ")
	maxAge := strconv.Itoa(opts.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()

			switch {
			case origin == "":
			case anyOrigin:
				h.Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			default:
				origin = ""
			}

			if origin != "" {
				if expose != "" {
					h.Set("Access-Control-Expose-Headers", expose)
				}
				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", headers)
					if opts.MaxAge > 0 {
						h.Set("Access-Control-Max-Age", maxAge)
					}
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
