package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
)

// CSVExtractor turns a CSV file into a single table block. The first
// record is the header row.
type CSVExtractor struct{}

func (p *CSVExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: fmt.Errorf("parse csv: %w", err)}
	}

	doc := &document.Document{
		ID:    DocID(filename),
		Title: strings.TrimSuffix(filename, ".csv"),
	}

	if len(records) == 0 {
		doc.Pages = []document.Page{{Number: 1}}
		return doc, nil
	}

	tbl := &document.Table{Rows: records}
	doc.Pages = []document.Page{{
		Number: 1,
		Blocks: []document.Block{{
			Kind:  document.KindTable,
			Text:  tbl.PlainText(),
			Table: tbl,
		}},
	}}
	return doc, nil
}
