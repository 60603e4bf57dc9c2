package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/cloud-atlas/pkg/handlers/cloud"
	cloudatlasmiddleware "github.com/de-tools/cloud-atlas/pkg/server/middleware"
	"github.com/de-tools/cloud-atlas/pkg/services/billing"
	"github.com/de-tools/cloud-atlas/pkg/services/inventory"
	"github.com/de-tools/cloud-atlas/pkg/services/metrics"
	"github.com/de-tools/cloud-atlas/pkg/services/org"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	Inventory inventory.Explorer
	Metrics   metrics.Explorer
	Billing   billing.Reporter
	Org       org.Workflow
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	handler := handlers.NewHandler(deps.Inventory, deps.Metrics, deps.Billing, deps.Org)

	router := chi.NewRouter()

	router.Use(cloudatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/instances", handler.ListInstances)
		r.Get("/instances/summaries", handler.ListInstanceSummaries)
		r.Get("/instances/{instanceID}/metrics", handler.GetInstanceMetrics)

		r.Get("/billing", handler.GetBilling)
		r.Get("/billing/accounts", handler.GetMemberAccountCosts)

		r.Get("/organization", handler.GetOrganization)
		r.Get("/organization/accounts", handler.ListMemberAccounts)
		r.Get("/organization/invitations", handler.ListInvitations)
		r.Post("/organization/invitations", handler.InviteAccount)
		r.Post("/organization/invitations/{handshakeID}/accept", handler.AcceptInvitation)
		r.Delete("/organization/invitations/{handshakeID}", handler.CancelInvitation)
	})

	return router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
