package api

import (
	"net/http"

	"github.com/JaimeStill/scrivener/internal/config"
	"github.com/JaimeStill/scrivener/internal/infrastructure"
	"github.com/JaimeStill/scrivener/internal/runs"
	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/internal/templates"
	"github.com/JaimeStill/scrivener/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, cfg *config.Config, infra *infrastructure.Infrastructure, domain *Domain) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	schemaHandler := schemas.NewHandler(domain.Schemas, infra.Logger, cfg.API.Pagination)
	templateHandler := templates.NewHandler(domain.Templates, infra.Logger, cfg.API.Pagination, maxUpload)
	runHandler := runs.NewHandler(domain.Runs, infra.Logger, cfg.API.Pagination, maxUpload)

	routes.Register(mux,
		schemaHandler.Routes(),
		templateHandler.Routes(),
		runHandler.Routes(),
	)
}
