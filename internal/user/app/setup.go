// Package app contains the application setup for the user service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/Nerzal/gocloak/v13"
	"github.com/go-chi/chi/v5"

	"github.com/swiftcart/swiftcart/internal/user/config"
	"github.com/swiftcart/swiftcart/internal/user/service"
	"github.com/swiftcart/swiftcart/internal/user/transport/rest"
	"github.com/swiftcart/swiftcart/pkg/server"
)

type Dependencies struct {
	UserService service.UserService
	Logger      *slog.Logger
}

func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	client := gocloak.NewClient(cfg.Keycloak.BaseURL)
	uService := service.NewService(client, cfg.Keycloak, logger)

	return &Dependencies{
		UserService: uService,
		Logger:      logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the user service.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	userHandler := rest.NewHandler(deps.UserService, deps.Logger)
	userHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the user service.
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
