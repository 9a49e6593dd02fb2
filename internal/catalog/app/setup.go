// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/swiftcart/swiftcart/internal/catalog/config"
	"github.com/swiftcart/swiftcart/internal/catalog/service"
	"github.com/swiftcart/swiftcart/internal/catalog/store"
	"github.com/swiftcart/swiftcart/internal/catalog/transport/rest"
	"github.com/swiftcart/swiftcart/pkg/auth"
	"github.com/swiftcart/swiftcart/pkg/server"
)

type Dependencies struct {
	ProductService service.ProductService
	Verifier       auth.Verifier
	Logger         *slog.Logger
}

func SetupDependencies(client *redis.Client, verifier auth.Verifier, logger *slog.Logger) *Dependencies {
	pService := service.New(store.NewRedisStore(client), logger)

	return &Dependencies{
		ProductService: pService,
		Verifier:       verifier,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the catalog service.
// Used by tests to exercise the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Verifier, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
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
