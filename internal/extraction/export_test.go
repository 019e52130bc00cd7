package extraction

import "context"

// SetRenderPDF replaces the page renderer and returns a restore function.
func SetRenderPDF(fn func(ctx context.Context, pdfPath string) ([][]byte, error)) func() {
	orig := renderPDF
	renderPDF = fn
	return func() { renderPDF = orig }
}
