// Package server exposes the ledger as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/fiscal"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/report"
)

// Services are the domain services the API is served from.
type Services struct {
	Years    *fiscal.Service
	Accounts *accounts.Service
	Journal  *journal.Service
	Reports  *report.Builder
}

// Server routes API requests to the ledger services.
type Server struct {
	svc    Services
	logger *slog.Logger
	userID int64
	router chi.Router
}

// New creates a Server. Transactions posted through it are recorded as
// created by userID.
func New(svc Services, logger *slog.Logger, userID int64) *Server {
	s := &Server{svc: svc, logger: logger, userID: userID}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(correlationID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/years", func(r chi.Router) {
			r.Get("/", s.listYears)
			r.Post("/", s.createYear)
			r.Get("/active", s.activeYear)
			r.Put("/{id}", s.updateYear)
			r.Delete("/{id}", s.deleteYear)
			r.Post("/{id}/activate", s.activateYear)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", s.listGroups)
			r.Post("/", s.createGroup)
			r.Put("/{id}", s.updateGroup)
			r.Delete("/{id}", s.deleteGroup)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.listAccounts)
			r.Post("/", s.createAccount)
			r.Get("/{id}", s.getAccount)
			r.Put("/{id}", s.updateAccount)
			r.Delete("/{id}", s.deleteAccount)
			r.Post("/{id}/activate", s.setAccountActive(true))
			r.Post("/{id}/deactivate", s.setAccountActive(false))
		})

		r.Get("/opening-balances", s.listOpenings)
		r.Put("/opening-balances", s.setOpening)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.listTransactions)
			r.Post("/", s.createTransaction)
			r.Get("/{id}", s.getTransaction)
			r.Put("/{id}", s.updateTransaction)
			r.Delete("/{id}", s.deleteTransaction)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/ledger/{account}", s.ledgerReport)
			r.Get("/trial-balance", s.trialBalance)
			r.Get("/balance-sheet", s.balanceSheet)
			r.Get("/profit-loss", s.profitLoss)
			r.Get("/outstanding", s.outstanding)
			r.Get("/outstanding/groups", s.outstandingByGroup)
			r.Get("/outstanding/groups/{id}", s.groupAccounts)
			r.Get("/cash-flow/{account}", s.cashFlow)
			r.Get("/cash-accounts", s.cashAccounts)
			r.Get("/day-book", s.dayBook)
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("ledger API listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
