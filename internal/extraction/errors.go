package extraction

import "errors"

var (
	// ErrUnsupportedFormat indicates the document bytes are neither a PDF nor an image.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtraction indicates text extraction failed for a document.
	ErrExtraction = errors.New("text extraction failed")
)
