package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 190.0
	pdfRowHeight  = 7.0
	pdfHeadHeight = 8.0

	pdfCoreFamily    = "Arial"
	pdfUnicodeFamily = "ReportSans"
)

// ErrUnsupportedText is returned when a document holds characters the core PDF fonts cannot encode.
var ErrUnsupportedText = errors.New("text not encodable without a unicode font")

// PDFExporter renders documents into a paginated A4 PDF with one table per dataset.
type PDFExporter struct {
	orientation string
	family      string
	font        []byte
	compress    bool
}

// NewPDFExporter constructs a PDF exporter using the core fonts. Documents with
// characters outside Windows-1252 are rejected with ErrUnsupportedText.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{orientation: "P", family: pdfCoreFamily, compress: true}
}

// NewPDFExporterWithFont embeds the TrueType font at path and writes text as UTF-8.
func NewPDFExporterWithFont(path string) (*PDFExporter, error) {
	font, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	return NewPDFExporterWithFontBytes(font)
}

// NewPDFExporterWithFontBytes is NewPDFExporterWithFont for an already loaded font.
func NewPDFExporterWithFontBytes(font []byte) (*PDFExporter, error) {
	if len(font) == 0 {
		return nil, errors.New("pdf font is empty")
	}
	return &PDFExporter{orientation: "P", family: pdfUnicodeFamily, font: font, compress: true}, nil
}

// Render creates the PDF. Table headers are repeated when a table spills onto a new page.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	pdf := gofpdf.New(e.orientation, "mm", "A4", "")
	pdf.SetCompression(e.compress)

	tr := func(s string) string { return s }
	if e.font != nil {
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(e.family, style, e.font)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
		if err := encodable(doc, tr); err != nil {
			return nil, err
		}
	}

	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(e.family, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont(e.family, "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(doc.Title)), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	if len(doc.Fields) > 0 {
		pdf.SetFont(e.family, "", 9)
		for _, field := range doc.Fields {
			pdf.CellFormat(45, 6, tr(field.Label), "", 0, "", false, 0, "")
			pdf.CellFormat(0, 6, tr(field.Value), "", 1, "", false, 0, "")
		}
		pdf.Ln(4)
	}

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	for _, ds := range doc.Datasets {
		colWidth := pdfPageWidth / float64(len(ds.Headers))
		header := func() {
			pdf.SetFont(e.family, "B", 10)
			for _, h := range ds.Headers {
				pdf.CellFormat(colWidth, pdfHeadHeight, tr(h), "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont(e.family, "", 9)
		}

		if ds.Name != "" {
			pdf.SetFont(e.family, "B", 11)
			pdf.CellFormat(0, 8, tr(ds.Name), "", 1, "", false, 0, "")
		}
		header()
		for _, row := range ds.Rows {
			if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
				pdf.AddPage()
				header()
			}
			for _, value := range ds.record(row) {
				pdf.CellFormat(colWidth, pdfRowHeight, tr(value), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// encodable reports the first string the core-font translator would degrade.
// The translator replaces characters outside its code page with '.'.
func encodable(doc Document, tr func(string) string) error {
	check := func(s string) error {
		for _, r := range s {
			if r < 0x80 {
				continue
			}
			if tr(string(r)) == "." {
				return fmt.Errorf("%w: %q", ErrUnsupportedText, s)
			}
		}
		return nil
	}
	texts := []string{doc.Title}
	for _, f := range doc.Fields {
		texts = append(texts, f.Label, f.Value)
	}
	for _, ds := range doc.Datasets {
		texts = append(texts, ds.Name)
		texts = append(texts, ds.Headers...)
		for _, row := range ds.Rows {
			texts = append(texts, ds.record(row)...)
		}
	}
	for _, s := range texts {
		if err := check(s); err != nil {
			return err
		}
	}
	return nil
}
