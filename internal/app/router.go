package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
	"github.com/okngoo/okngoo-deliveries/internal/reports"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	DeliveriesHandler *deliveries.Handler
	CatalogHandler    *deliveries.CatalogHandler
	ReportsHandler    *reports.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/deliveries", params.DeliveriesHandler.MountRoutes)
	r.Route("/catalog", params.CatalogHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)

	return r
}
