package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() Document {
	return Document{
		Title:  "Summary Report",
		Fields: []Field{{Label: "Generated By", Value: "Dara"}},
		Datasets: []Dataset{
			{
				Name:    "Metrics",
				Headers: []string{"metric", "value"},
				Rows: []map[string]string{
					{"metric": "total_sessions", "value": "10"},
					{"metric": "completion_rate", "value": "80.00"},
				},
			},
			{
				Name:    "Metrics",
				Headers: []string{"school", "score"},
				Rows:    []map[string]string{{"school": "North", "score": "2.60"}},
			},
		},
	}
}

func TestCSVExporterRendersAllDatasets(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	content := string(out)
	assert.True(t, strings.HasPrefix(content, "Summary Report\n"))
	assert.Contains(t, content, "Generated By,Dara\n")
	assert.Contains(t, content, "metric,value\ntotal_sessions,10\ncompletion_rate,80.00\n")
	assert.Contains(t, content, "school,score\nNorth,2.60\n")
}

func TestCSVExporterRejectsHeaderlessDataset(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{Datasets: []Dataset{{Name: "empty"}}})
	require.Error(t, err)
}

func TestPDFExporterProducesPDF(t *testing.T) {
	doc := sampleDocument()
	for i := 0; i < 120; i++ {
		doc.Datasets[0].Rows = append(doc.Datasets[0].Rows, map[string]string{"metric": "row", "value": "1"})
	}
	out, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func utf16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(out[2*i:], u)
	}
	return out
}

func khmerDocument() Document {
	return Document{
		Title:  "របាយការណ៍សង្ខេប",
		Fields: []Field{{Label: "បង្កើតដោយ", Value: "Dara"}},
		Datasets: []Dataset{{
			Name:    "រង្វាស់",
			Headers: []string{"រង្វាស់", "តម្លៃ"},
			Rows:    []map[string]string{{"រង្វាស់": "វគ្គសរុប", "តម្លៃ": "10"}},
		}},
	}
}

func TestPDFExporterWithFontKeepsKhmerText(t *testing.T) {
	e, err := NewPDFExporterWithFont("testdata/DejaVuSansCondensed.ttf")
	require.NoError(t, err)
	e.compress = false

	out, err := e.Render(khmerDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.True(t, bytes.Contains(out, utf16BE("របាយការណ៍សង្ខេប")))
	assert.True(t, bytes.Contains(out, utf16BE("វគ្គសរុប")))
}

func TestPDFExporterWithoutFontRejectsKhmer(t *testing.T) {
	_, err := NewPDFExporter().Render(khmerDocument())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedText))

	latin := Document{Title: "Café report", Datasets: []Dataset{{Headers: []string{"a"}, Rows: []map[string]string{{"a": "résumé"}}}}}
	_, err = NewPDFExporter().Render(latin)
	assert.NoError(t, err)
}

func TestNewPDFExporterWithFontMissingFile(t *testing.T) {
	_, err := NewPDFExporterWithFont("testdata/missing.ttf")
	assert.Error(t, err)
}

func TestXLSXExporterWritesSheetPerDataset(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Metrics", "Metrics 2"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Summary Report", title)

	rows, err := f.GetRows("Metrics")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"metric", "value"}, rows[0])
	assert.Equal(t, []string{"completion_rate", "80.00"}, rows[2])
}

func TestSheetNameSanitizes(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "Trends (monthly)", sheetName("Trends [monthly]", 0, used))
	assert.Equal(t, "Data 2", sheetName("  ", 1, used))
	long := strings.Repeat("x", 40)
	assert.Len(t, sheetName(long, 2, used), maxSheetNameLength)
	assert.Len(t, sheetName(long, 3, used), maxSheetNameLength)
}
