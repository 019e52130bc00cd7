package templates

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"

	"github.com/unidoc/unioffice/v2/document"
)

var mergePointPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_][A-Za-z0-9_.-]*)\s*\}\}`)

// FindMergePoints returns the unique merge point names in text, in order of
// first appearance.
func FindMergePoints(text string) []string {
	var points []string
	for _, match := range mergePointPattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(points, match[1]) {
			points = append(points, match[1])
		}
	}
	return points
}

// DocxBinder scans and fills {{merge_point}} placeholders in docx documents.
// Word splits placeholder text across runs unpredictably, so both operations
// work on reassembled paragraph text.
type DocxBinder struct{}

// ScanMergePoints returns every merge point name declared in the document,
// including table, header, and footer paragraphs.
func (DocxBinder) ScanMergePoints(data []byte) ([]string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	var points []string
	for _, para := range allParagraphs(doc) {
		for _, name := range FindMergePoints(paragraphText(para)) {
			if !slices.Contains(points, name) {
				points = append(points, name)
			}
		}
	}

	return points, nil
}

// Bind substitutes merge point placeholders with rendered values. Paragraphs
// containing placeholders are rewritten as a single run; placeholders with
// no value entry are left in place.
func (DocxBinder) Bind(data []byte, values map[string]string) ([]byte, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	for _, para := range allParagraphs(doc) {
		bindParagraph(para, values)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("save bound document: %w", err)
	}

	return buf.Bytes(), nil
}

func bindParagraph(para document.Paragraph, values map[string]string) {
	text := paragraphText(para)
	if !mergePointPattern.MatchString(text) {
		return
	}

	replaced := mergePointPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := mergePointPattern.FindStringSubmatch(match)[1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})

	if replaced == text {
		return
	}

	for _, run := range para.Runs() {
		para.RemoveRun(run)
	}
	para.AddRun().AddText(replaced)
}

func paragraphText(para document.Paragraph) string {
	var b bytes.Buffer
	for _, run := range para.Runs() {
		b.WriteString(run.Text())
	}
	return b.String()
}

func allParagraphs(doc *document.Document) []document.Paragraph {
	paras := doc.Paragraphs()

	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				paras = append(paras, cell.Paragraphs()...)
			}
		}
	}

	for _, header := range doc.Headers() {
		paras = append(paras, header.Paragraphs()...)
	}
	for _, footer := range doc.Footers() {
		paras = append(paras, footer.Paragraphs()...)
	}

	return paras
}
