package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"golang.org/x/sync/errgroup"
)

// recognizePDF renders every page to PNG via ImageMagick and transcribes the
// pages through the recognizer. Page order is preserved; document confidence
// is the minimum page confidence.
func (e *Extractor) recognizePDF(ctx context.Context, doc RawDocument) (ExtractedText, error) {
	tempDir, err := os.MkdirTemp("", "scrivener-ocr-")
	if err != nil {
		return ExtractedText{}, fmt.Errorf("%w: create temp dir: %w", ErrExtraction, err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(pdfPath, doc.Data, 0600); err != nil {
		return ExtractedText{}, fmt.Errorf("%w: write temp pdf: %w", ErrExtraction, err)
	}

	pages, err := renderPDF(ctx, pdfPath)
	if err != nil {
		return ExtractedText{}, fmt.Errorf("%w: %s: %w", ErrExtraction, doc.Filename, err)
	}

	transcriptions := make([]Transcription, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkerCount(len(pages)))

	for i := range pages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			t, err := e.recognizer.Recognize(gctx, pages[i])
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}

			transcriptions[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ExtractedText{}, fmt.Errorf("%w: %s: %w", ErrExtraction, doc.Filename, err)
	}

	result := ExtractedText{Method: MethodOCR, Confidence: 1.0}
	for i, t := range transcriptions {
		if i > 0 {
			result.Text += PageBreak
		}
		result.Text += t.Text
		if t.Confidence < result.Confidence {
			result.Confidence = t.Confidence
		}
		for _, w := range t.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("page %d: %s", i+1, w))
		}
	}

	return result, nil
}

var renderPDF = renderPages

// renderPages rasterizes every PDF page to PNG bytes with bounded concurrency.
func renderPages(ctx context.Context, pdfPath string) ([][]byte, error) {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(config.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}

	rendered := make([][]byte, len(allPages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkerCount(len(allPages)))

	for i, page := range allPages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i+1, err)
			}

			rendered[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rendered, nil
}

func renderWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
