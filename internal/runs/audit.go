package runs

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/scrivener/internal/pipeline"
	"github.com/JaimeStill/scrivener/internal/schemas"
)

// XlsxContentType is the content type for stored audit workbooks.
const XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildAuditWorkbook renders a run outcome as a reviewable workbook: one
// sheet of field values with their provenance, one sheet of diagnostics.
func BuildAuditWorkbook(result *pipeline.Result, schema *schemas.Schema) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const fieldSheet = "Fields"
	if err := f.SetSheetName("Sheet1", fieldSheet); err != nil {
		return nil, fmt.Errorf("audit workbook: %w", err)
	}

	headers := []any{"Field", "Type", "Required", "Value", "Source Document", "Confidence", "Missing"}
	if err := setRow(f, fieldSheet, 1, headers); err != nil {
		return nil, err
	}

	for i, field := range schema.Fields {
		value, ok := result.Fields[field.Name]
		rendered := result.Rendered[field.Name]

		row := []any{
			field.Name,
			string(field.Type),
			field.Required,
			rendered,
			"",
			"",
			!ok || value.Missing,
		}
		if ok && !value.Missing {
			row[4] = value.SourceID
			row[5] = value.Confidence
		}

		if err := setRow(f, fieldSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	const diagSheet = "Diagnostics"
	if _, err := f.NewSheet(diagSheet); err != nil {
		return nil, fmt.Errorf("audit workbook: %w", err)
	}

	if err := setRow(f, diagSheet, 1, []any{"Stage", "Severity", "Code", "Document", "Field", "Message"}); err != nil {
		return nil, err
	}

	for i, d := range result.Diagnostics {
		row := []any{d.Stage, string(d.Severity), d.Code, d.Document, d.Field, d.Message}
		if err := setRow(f, diagSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("audit workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("audit workbook: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("audit workbook: %w", err)
		}
	}
	return nil
}
