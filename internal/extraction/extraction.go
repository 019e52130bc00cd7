// Package extraction converts raw claim documents into plain text, using the
// PDF text layer when one exists and falling back to vision transcription of
// rendered pages.
package extraction

// Method identifies how a document's text was obtained.
type Method string

const (
	MethodNative Method = "native"
	MethodOCR    Method = "ocr"
)

// RawDocument is a single input document within a run. Documents are
// transient: bytes live only for the duration of the pipeline.
type RawDocument struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
}

// ExtractedText is the text representation of one document. Pages are joined
// with form-feed markers. Confidence is 1.0 for the native path and the
// minimum page confidence for the OCR path. Empty text is valid and carries
// a warning rather than an error.
type ExtractedText struct {
	DocumentID string
	Text       string
	Method     Method
	Confidence float64
	Warnings   []string
}

// PageBreak separates page text within an extracted document.
const PageBreak = "\f"
