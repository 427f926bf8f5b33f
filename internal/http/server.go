// Package http exposes the JSON API over a chi router. Handlers stay thin:
// parse, call a service, serialize.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"financas/internal/middleware/trace"
	"financas/internal/services"
	"financas/internal/storage"
)

type Server struct {
	http.Server

	storage      *storage.SQLiteRepository
	transactions *services.TransactionService
	purchases    *services.PurchaseService
	reports      *services.ReportService
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st *storage.SQLiteRepository, ts *services.TransactionService, ps *services.PurchaseService, rs *services.ReportService) *Server {
	s := &Server{
		storage:      st,
		transactions: ts,
		purchases:    ps,
		reports:      rs,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(trace.Middleware)

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Post("/reclassify", s.handleReclassify)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", s.handleCreatePurchase)
			r.Delete("/{id}", s.handleDeletePurchase)
		})

		r.Route("/installments", func(r chi.Router) {
			r.Get("/", s.handleListInstallments)
			r.Post("/{id}/toggle", s.handleToggleInstallment)
		})

		r.Get("/report", s.handleReport)
		r.Get("/planning", s.handlePlanning)
		r.Get("/competences", s.handleListCompetences)
		r.Post("/simulation", s.handleSimulation)
	})

	s.Server = http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}
