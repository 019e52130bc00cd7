package api

import (
	"github.com/JaimeStill/scrivener/internal/config"
	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/internal/fieldmap"
	"github.com/JaimeStill/scrivener/internal/infrastructure"
	"github.com/JaimeStill/scrivener/internal/pipeline"
	"github.com/JaimeStill/scrivener/internal/templates"
)

// newPipelineRuntime wires the pipeline's model-facing dependencies from the
// application configuration: the text extractor with its vision recognizer,
// the field extraction client with its retry policy, and the docx binder.
func newPipelineRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *pipeline.Runtime {
	recognizer := extraction.NewVisionRecognizer(cfg.Agent)
	extractor := extraction.NewExtractor(recognizer, cfg.Pipeline.NativeTextThreshold, infra.Logger)

	retry := fieldmap.RetryPolicy{
		MaxAttempts:    cfg.Pipeline.Retry.MaxAttempts,
		InitialBackoff: cfg.Pipeline.Retry.InitialBackoffDuration(),
		Multiplier:     cfg.Pipeline.Retry.Multiplier,
		MaxBackoff:     cfg.Pipeline.Retry.MaxBackoffDuration(),
	}
	client := fieldmap.NewClient(fieldmap.NewAgentCompleter(cfg.Agent), retry, infra.Logger)

	return &pipeline.Runtime{
		Extractor:        extractor,
		Fields:           client,
		Binder:           templates.DocxBinder{},
		Logger:           infra.Logger,
		ExtractTimeout:   cfg.Pipeline.ExtractTimeoutDuration(),
		ModelTimeout:     cfg.Pipeline.ModelTimeoutDuration(),
		ModelConcurrency: cfg.Pipeline.ModelConcurrency,
	}
}
