/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique id per request for tracing
  4. CORS:       cross-origin requests for the frontend
  5. httprate:   per-IP request rate limiting

SECURITY NOTE:
  No authentication middleware. All endpoints are public; the service is
  meant for a single kitchen on a trusted network.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/midday/kitchen-engine/config"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.Limit(cfg.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", h.ListPurchases)
			r.Post("/", h.CreatePurchase)
			r.Delete("/{id}", h.DeletePurchase)
		})

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", h.ListMeals)
			r.Post("/", h.CreateMeal)
			r.Delete("/{id}", h.DeleteMeal)
		})

		r.Get("/stock", h.GetStock)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly", h.GetMonthlyCosts)
			r.Get("/usage", h.GetUsage)
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/monthly.csv", h.ExportMonthlyCosts)
			r.Get("/usage.csv", h.ExportUsage)
			r.Get("/stock.csv", h.ExportStock)
			r.Get("/purchases.csv", h.ExportPurchases)
			r.Get("/meals.csv", h.ExportMeals)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventoryItems)
			r.Post("/", h.CreateInventoryItem)
			r.Put("/{id}", h.UpdateInventoryItem)
			r.Delete("/{id}", h.DeleteInventoryItem)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
