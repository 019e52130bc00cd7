package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Extractor implements text extraction over raw documents. The declared
// content type is advisory: detection over the bytes decides the path, and a
// disagreement surfaces as a warning.
type Extractor struct {
	recognizer Recognizer
	threshold  int
	logger     *slog.Logger
}

// NewExtractor creates an Extractor. threshold is the minimum count of
// non-whitespace characters a PDF text layer must yield before the native
// result is trusted over the OCR path.
func NewExtractor(recognizer Recognizer, threshold int, logger *slog.Logger) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		threshold:  threshold,
		logger:     logger.With("system", "extraction"),
	}
}

// Extract produces the text representation of a single document.
func (e *Extractor) Extract(ctx context.Context, doc RawDocument) (ExtractedText, error) {
	detected := mimetype.Detect(doc.Data)

	var warnings []string
	if doc.ContentType != "" && !detected.Is(doc.ContentType) {
		warnings = append(warnings, fmt.Sprintf(
			"declared content type %q does not match detected %q",
			doc.ContentType, detected.String(),
		))
	}

	var (
		result ExtractedText
		err    error
	)

	switch {
	case detected.Is("application/pdf"):
		result, err = e.extractPDF(ctx, doc)
	case strings.HasPrefix(detected.String(), "image/"):
		result, err = e.extractImage(ctx, doc)
	default:
		return ExtractedText{}, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, doc.Filename, detected.String())
	}

	if err != nil {
		return ExtractedText{}, err
	}

	result.DocumentID = doc.ID
	result.Warnings = append(warnings, result.Warnings...)

	if strings.TrimSpace(result.Text) == "" {
		result.Warnings = append(result.Warnings, "document yielded no text")
	}

	e.logger.Info("document extracted",
		"document", doc.Filename,
		"method", result.Method,
		"confidence", result.Confidence,
		"chars", len(result.Text),
	)

	return result, nil
}

// extractPDF tries the native text layer first, falling back to OCR when the
// layer yields too little text to be a real text layer.
func (e *Extractor) extractPDF(ctx context.Context, doc RawDocument) (ExtractedText, error) {
	text, err := nativeText(doc.Data)
	if err == nil && countGlyphs(text) >= e.threshold {
		return ExtractedText{
			Text:       text,
			Method:     MethodNative,
			Confidence: 1.0,
		}, nil
	}

	var warnings []string
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("native text layer unreadable: %v", err))
	} else {
		warnings = append(warnings, "native text layer below threshold, transcribing pages")
	}

	result, err := e.recognizePDF(ctx, doc)
	if err != nil {
		return ExtractedText{}, err
	}

	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

func (e *Extractor) extractImage(ctx context.Context, doc RawDocument) (ExtractedText, error) {
	t, err := e.recognizer.Recognize(ctx, doc.Data)
	if err != nil {
		return ExtractedText{}, fmt.Errorf("%w: %s: %w", ErrExtraction, doc.Filename, err)
	}

	return ExtractedText{
		Text:       t.Text,
		Method:     MethodOCR,
		Confidence: t.Confidence,
		Warnings:   t.Warnings,
	}, nil
}

func countGlyphs(s string) int {
	count := 0
	for _, r := range s {
		if !isSpace(r) {
			count++
		}
	}
	return count
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
