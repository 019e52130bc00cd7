package extraction_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/scrivener/internal/extraction"
)

// Minimal 1x1 PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

type fakeRecognizer struct {
	transcription extraction.Transcription
	err           error
	calls         int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte) (extraction.Transcription, error) {
	f.calls++
	if f.err != nil {
		return extraction.Transcription{}, f.err
	}
	return f.transcription, nil
}

func TestExtractUnsupportedFormat(t *testing.T) {
	recognizer := &fakeRecognizer{}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:       "01-notes.txt",
		Filename: "notes.txt",
		Data:     []byte("plain text, not a claim document image"),
	}

	_, err := extractor.Extract(context.Background(), doc)
	if !errors.Is(err, extraction.ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if recognizer.calls != 0 {
		t.Errorf("recognizer calls = %d, want 0", recognizer.calls)
	}
}

// pdfBytes assembles a one-page PDF whose content stream draws text through a
// standard Helvetica font, with the xref table computed from actual offsets.
func pdfBytes(t *testing.T, text string) []byte {
	t.Helper()

	content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestExtractPDFNativeTextLayer(t *testing.T) {
	recognizer := &fakeRecognizer{}
	extractor := extraction.NewExtractor(recognizer, 16, slog.Default())

	doc := extraction.RawDocument{
		ID:          "01-fnol.pdf",
		Filename:    "fnol.pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes(t, "Claim CLM-123456 filed by Jane Smith"),
	}

	result, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if result.Method != extraction.MethodNative {
		t.Errorf("Method = %q, want native", result.Method)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if !strings.Contains(result.Text, "CLM-123456") {
		t.Errorf("Text = %q, want the embedded text layer", result.Text)
	}
	if recognizer.calls != 0 {
		t.Errorf("recognizer calls = %d, want 0 when the text layer suffices", recognizer.calls)
	}
}

func TestExtractPDFBelowThresholdFallsBack(t *testing.T) {
	restore := extraction.SetRenderPDF(func(_ context.Context, _ string) ([][]byte, error) {
		return [][]byte{pngBytes}, nil
	})
	t.Cleanup(restore)

	recognizer := &fakeRecognizer{
		transcription: extraction.Transcription{Text: "Claim CLM-123456", Confidence: 0.8},
	}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:          "01-scan.pdf",
		Filename:    "scan.pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes(t, "Hi"),
	}

	result, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if result.Method != extraction.MethodOCR {
		t.Errorf("Method = %q, want ocr", result.Method)
	}
	if recognizer.calls != 1 {
		t.Errorf("recognizer calls = %d, want 1", recognizer.calls)
	}
	if result.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want the page confidence", result.Confidence)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "below threshold") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a below-threshold warning", result.Warnings)
	}
}

func TestExtractImage(t *testing.T) {
	recognizer := &fakeRecognizer{
		transcription: extraction.Transcription{
			Text:       "Claim CLM-123456\nJane Smith",
			Confidence: 0.85,
		},
	}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:          "01-photo.png",
		Filename:    "photo.png",
		ContentType: "image/png",
		Data:        pngBytes,
	}

	result, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if result.DocumentID != "01-photo.png" {
		t.Errorf("DocumentID = %q, want the input id", result.DocumentID)
	}
	if result.Method != extraction.MethodOCR {
		t.Errorf("Method = %q, want ocr", result.Method)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", result.Confidence)
	}
	if result.Text != "Claim CLM-123456\nJane Smith" {
		t.Errorf("Text = %q, want the transcription", result.Text)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}
}

func TestExtractImageRecognizerFailure(t *testing.T) {
	recognizer := &fakeRecognizer{err: errors.New("vision call: connection refused")}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:       "01-photo.png",
		Filename: "photo.png",
		Data:     pngBytes,
	}

	_, err := extractor.Extract(context.Background(), doc)
	if !errors.Is(err, extraction.ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExtractContentTypeMismatchWarning(t *testing.T) {
	recognizer := &fakeRecognizer{
		transcription: extraction.Transcription{Text: "some text", Confidence: 0.9},
	}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:          "01-photo.png",
		Filename:    "photo.png",
		ContentType: "application/pdf",
		Data:        pngBytes,
	}

	result, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want a content type mismatch warning", result.Warnings)
	}
}

func TestExtractEmptyTextWarning(t *testing.T) {
	recognizer := &fakeRecognizer{
		transcription: extraction.Transcription{Text: "   \n", Confidence: 1.0},
	}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:       "01-blank.png",
		Filename: "blank.png",
		Data:     pngBytes,
	}

	result, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want an empty text warning", result.Warnings)
	}
}

func TestExtractRecognizerWarningsPropagate(t *testing.T) {
	recognizer := &fakeRecognizer{
		transcription: extraction.Transcription{
			Text:       "partial text",
			Confidence: 0.5,
			Warnings:   []string{"transcription omitted confidence, assuming 0.5"},
		},
	}
	extractor := extraction.NewExtractor(recognizer, 64, slog.Default())

	doc := extraction.RawDocument{
		ID:       "01-scan.png",
		Filename: "scan.png",
		Data:     pngBytes,
	}

	result, err := extractor.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want the recognizer warning carried through", result.Warnings)
	}
}
