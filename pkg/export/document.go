package export

import "fmt"

// Field is a labelled scalar printed in a document header block.
type Field struct {
	Label string
	Value string
}

// Dataset defines tabular export content.
type Dataset struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// Document is the renderer-neutral form of a report. Every renderer receives the same document.
type Document struct {
	Title    string
	Fields   []Field
	Datasets []Dataset
}

// Renderer serializes a document to bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}

func validate(doc Document) error {
	for i, ds := range doc.Datasets {
		if len(ds.Headers) == 0 {
			return fmt.Errorf("dataset %d (%s) requires at least one header", i, ds.Name)
		}
	}
	return nil
}
