// Package app contains the application setup for the order service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftcart/swiftcart/internal/order/config"
	"github.com/swiftcart/swiftcart/internal/order/service"
	"github.com/swiftcart/swiftcart/internal/order/store"
	"github.com/swiftcart/swiftcart/internal/order/transport/rest"
	"github.com/swiftcart/swiftcart/pkg/auth"
	"github.com/swiftcart/swiftcart/pkg/messaging"
	"github.com/swiftcart/swiftcart/pkg/server"
)

type Dependencies struct {
	OrderService service.OrderService
	Verifier     auth.Verifier
	Logger       *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, verifier auth.Verifier, logger *slog.Logger) *Dependencies {
	oService := service.NewService(store.NewPgStore(dbPool), publisher, logger)

	return &Dependencies{
		OrderService: oService,
		Verifier:     verifier,
		Logger:       logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the order service.
// Used by tests to exercise the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	orderHandler := rest.NewHandler(deps.OrderService, deps.Verifier, deps.Logger)
	orderHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the order service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
