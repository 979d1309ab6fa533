package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet       = "Summary"
	maxSheetNameLength = 31
)

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// XLSXExporter renders documents into a workbook: a summary sheet for the title and fields,
// then one sheet per dataset.
type XLSXExporter struct{}

// NewXLSXExporter builds a spreadsheet exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces the xlsx workbook bytes.
func (e *XLSXExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	row := 1
	if doc.Title != "" {
		if err := f.SetCellValue(summarySheet, "A1", doc.Title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		if err := f.SetCellStyle(summarySheet, "A1", "A1", bold); err != nil {
			return nil, fmt.Errorf("style title: %w", err)
		}
		row = 3
	}
	for _, field := range doc.Fields {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{field.Label, field.Value}); err != nil {
			return nil, fmt.Errorf("write field: %w", err)
		}
		row++
	}

	used := map[string]bool{summarySheet: true}
	for i, ds := range doc.Datasets {
		name := sheetName(ds.Name, i, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		header := make([]interface{}, len(ds.Headers))
		for j, h := range ds.Headers {
			header[j] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write headers: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(ds.Headers), 1)
		if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("style headers: %w", err)
		}
		for r, values := range ds.Rows {
			record := ds.record(values)
			cells := make([]interface{}, len(record))
			for j, v := range record {
				cells[j] = v
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(name string, index int, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(name))
	if base == "" {
		base = fmt.Sprintf("Data %d", index+1)
	}
	base = truncateRunes(base, maxSheetNameLength)
	candidate := base
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		candidate = truncateRunes(base, maxSheetNameLength-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
