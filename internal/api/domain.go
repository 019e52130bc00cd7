package api

import (
	"github.com/JaimeStill/scrivener/internal/config"
	"github.com/JaimeStill/scrivener/internal/infrastructure"
	"github.com/JaimeStill/scrivener/internal/runs"
	"github.com/JaimeStill/scrivener/internal/schemas"
	"github.com/JaimeStill/scrivener/internal/templates"
)

// Domain holds the API's domain systems. Runs depends on schemas and
// templates for resolution during execution.
type Domain struct {
	Schemas   schemas.System
	Templates templates.System
	Runs      runs.System
}

// NewDomain constructs the domain systems over shared infrastructure.
func NewDomain(cfg *config.Config, infra *infrastructure.Infrastructure) *Domain {
	schemaSystem := schemas.New(infra.Database, infra.Logger)
	templateSystem := templates.New(infra.Database, infra.Storage, infra.Logger)

	runSystem := runs.New(
		infra.Database,
		infra.Storage,
		schemaSystem,
		templateSystem,
		newPipelineRuntime(cfg, infra),
		infra.Logger,
	)

	return &Domain{
		Schemas:   schemaSystem,
		Templates: templateSystem,
		Runs:      runSystem,
	}
}
