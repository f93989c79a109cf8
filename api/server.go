/*
server.go - HTTP router setup

PURPOSE:
  Wires the handlers into a chi router with the standard middleware stack
  (request ids, logging, panic recovery, CORS) and exposes the route tree.

SEE ALSO:
  - handlers.go: The handlers themselves
  - cmd/server/main.go: Binds the router to a listener
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unionhall/dues-engine/reconcile"
)

// Options tunes router behavior.
type Options struct {
	// AllowedOrigins for CORS. Empty disables cross-origin access.
	AllowedOrigins []string

	// EnableScenarios exposes the demo scenario endpoints. Off in
	// production: loading a scenario wipes the store.
	EnableScenarios bool
}

// NewRouter builds the HTTP route tree over the given store.
func NewRouter(store reconcile.Store, opts Options) http.Handler {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.ListMembers)
			r.Post("/", h.SaveMember)
			r.Get("/{id}", h.GetMember)
			r.Put("/{id}", h.UpdateMember)
			r.Get("/{id}/summary", h.GetMemberSummary)
		})

		r.Route("/allocations", func(r chi.Router) {
			r.Get("/", h.ListAllocations)
			r.Post("/", h.CreateAllocation)
			r.Get("/{year}", h.GetAllocation)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
		})

		r.Route("/finances", func(r chi.Router) {
			r.Get("/", h.ListFinanceEntries)
			r.Post("/", h.CreateFinanceEntry)
		})

		r.Route("/reports/{year}", func(r chi.Router) {
			r.Get("/overview", h.GetOverview)
			r.Get("/dues", h.GetDuesStats)
			r.Get("/owing", h.GetOwingMembers)
			r.Get("/export", h.ExportReport)
		})

		if opts.EnableScenarios {
			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", h.ListScenarios)
				r.Post("/load", h.LoadScenario)
			})
		}
	})

	return r
}
