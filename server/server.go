// Package server exposes the admin HTTP API. Handlers open one unit of work
// per request, run a domain service inside it, and commit on success.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"pointsdesk/application"
	"pointsdesk/domain/interfaces"
)

// Server wires the HTTP surface to the domain services
type Server struct {
	uowFactory interfaces.UnitOfWorkFactory
	settlement interfaces.SettlementService
	batch      *application.ConfiscationBatch
	oddsPolicy interfaces.OddsPolicy

	// Default inactivity threshold for the dormant listing, overridable
	// per request via the months query parameter
	dormantMonths int

	httpServer *http.Server
}

// NewServer creates the admin API server listening on addr
func NewServer(
	addr string,
	uowFactory interfaces.UnitOfWorkFactory,
	settlement interfaces.SettlementService,
	batch *application.ConfiscationBatch,
	oddsPolicy interfaces.OddsPolicy,
	dormantMonths int,
) *Server {
	s := &Server{
		uowFactory:    uowFactory,
		settlement:    settlement,
		batch:         batch,
		oddsPolicy:    oddsPolicy,
		dormantMonths: dormantMonths,
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Router builds the chi route tree
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Get("/health", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(IdentityMiddleware)

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", requireRequester(s.CreateCustomer))
			r.Get("/{id}", s.GetCustomer)
			r.Get("/{id}/balances", s.GetBalances)
			r.Get("/{id}/entries", s.GetCustomerEntries)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", requireRequester(s.CreateEntry))
			r.Post("/{id}/approve", requireApprover(s.ApproveEntry))
			r.Post("/{id}/reject", requireApprover(s.RejectEntry))
			r.Post("/{id}/reverse", requireApprover(s.ReverseEntry))
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", requireApprover(s.CreateMatch))
			r.Get("/{id}", s.GetMatch)
			r.Post("/{id}/close", requireApprover(s.CloseBetting))
			r.Post("/{id}/verify", requireApprover(s.VerifyMatch))
			r.Post("/{id}/settle", requireApprover(s.SettleMatch))
		})

		r.Route("/bets", func(r chi.Router) {
			r.Post("/", requireRequester(s.PlaceBet))
			r.Post("/{id}/odds", requireApprover(s.SetOdds))
		})

		r.Route("/dormant", func(r chi.Router) {
			r.Get("/", requireApprover(s.ListDormant))
			r.Post("/confiscate", requireApprover(s.ConfiscateBatch))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/calculate", requireApprover(s.CalculateReport))
			r.Get("/{year}/{month}", s.GetReport)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Start begins serving requests, blocking until the server stops
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
