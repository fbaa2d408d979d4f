package router

import (
	"net/http"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler)
}

// New builds the API mux. Every controller route gets a request id.
func New(registrars ...RouteRegistrar) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	requestID := middleware.RequestID()
	for _, registrar := range registrars {
		if registrar != nil {
			registrar.RegisterRoutes(mux, requestID)
		}
	}

	return mux
}
