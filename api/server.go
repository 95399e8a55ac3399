/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the storefront frontend
  5. Session:    Bearer credential -> session context (401 without one)

ROUTE GROUPS:
  /api/products/*       Catalog and stock
  /api/buyers/*         Buyer directory
  /api/suppliers/*      Supplier directory
  /api/parties/{id}     Kind-agnostic party lookup and removal
  /api/transactions/*   Ledger writes
  /api/sales            Sale history
  /api/bills/*          Bill submission and estimate rendering
  /api/reports/*        Sales and outstanding-balance reports
  /api/seed             Demo catalog (dev only)

AUTHENTICATION:
  Every /api route requires an opaque bearer credential. The server does
  not interpret it beyond presence; it travels into the session context
  so downstream stores can forward it.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/storefront/inventory-engine/session"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(requireSession)

		// Catalog routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Post("/{id}/restock", h.RestockProduct)
		})

		// Directory routes, one group per party kind
		r.Route("/buyers", func(r chi.Router) {
			r.Get("/", h.ListBuyers)
			r.Post("/", h.CreateBuyer)
			r.Put("/{id}", h.UpdateParty)
		})
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Post("/", h.CreateSupplier)
			r.Put("/{id}", h.UpdateParty)
		})
		r.Route("/parties", func(r chi.Router) {
			r.Get("/{id}", h.GetParty)
			r.Delete("/{id}", h.DeleteParty)
		})

		// Ledger routes
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", h.CreateTransaction)
			r.Patch("/{id}", h.UpdateTransaction)
		})
		r.Get("/sales", h.ListSales)

		// Billing routes
		r.Route("/bills", func(r chi.Router) {
			r.Post("/", h.SubmitBill)
			r.Post("/estimate", h.RenderEstimate)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", h.SalesReport)
			r.Get("/outstanding", h.OutstandingReport)
		})

		// Demo data (dev only)
		r.Post("/seed", h.SeedDemo)
	})

	return r
}

// requireSession turns the bearer credential into a session context.
// Requests without one are rejected before reaching any handler.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer credential")
			return
		}
		ctx := session.NewContext(r.Context(), session.Session{Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
