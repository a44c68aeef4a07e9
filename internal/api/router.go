package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a chi router with the relay routes. It is meant to be
// mounted under /api.
func NewRouter(relay Lookuper) chi.Router {
	h := NewHandler(relay)

	r := chi.NewRouter()
	r.Use(RecoverJSON)
	r.Use(CORSMiddleware)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/proxy", h.Proxy)
	r.Options("/proxy", preflight)

	// Legacy alias kept for old bookmarks and integrations.
	r.Get("/getData", h.GetData)
	r.Options("/getData", preflight)

	return r
}

// NewRootRouter builds the full server handler: request middleware, health
// checks and the relay under /api.
func NewRootRouter(relay Lookuper) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Mount("/api", NewRouter(relay))
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
