// Package api assembles the domain systems into the service's HTTP module.
package api

import (
	"net/http"

	"github.com/JaimeStill/scrivener/internal/config"
	"github.com/JaimeStill/scrivener/internal/infrastructure"
	"github.com/JaimeStill/scrivener/pkg/middleware"
	"github.com/JaimeStill/scrivener/pkg/module"
)

// NewModule builds the API module: domain systems, route registration, and
// the module middleware stack.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	domain := NewDomain(cfg, infra)

	mux := http.NewServeMux()
	registerRoutes(mux, cfg, infra, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(infra.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m, nil
}
