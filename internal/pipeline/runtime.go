package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/internal/fieldmap"
)

// TextExtractor converts one raw document into text.
type TextExtractor interface {
	Extract(ctx context.Context, doc extraction.RawDocument) (extraction.ExtractedText, error)
}

// Binder fills rendered values into template bytes.
type Binder interface {
	Bind(template []byte, values map[string]string) ([]byte, error)
}

// Runtime bundles the dependencies that pipeline nodes require. It is
// constructed by higher-level composition code from infrastructure and
// domain systems.
type Runtime struct {
	Extractor        TextExtractor
	Fields           fieldmap.Client
	Binder           Binder
	Logger           *slog.Logger
	ExtractTimeout   time.Duration
	ModelTimeout     time.Duration
	ModelConcurrency int
}
