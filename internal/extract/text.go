package extract

import (
	"io"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
)

// TextExtractor handles plain text. Form feeds separate pages, matching
// how the PDF text layer marks page boundaries.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: err}
	}

	doc := &document.Document{
		ID:    DocID(filename),
		Title: strings.TrimSuffix(filename, ".txt"),
	}

	for i, page := range strings.Split(string(data), "\f") {
		doc.Pages = append(doc.Pages, document.Page{
			Number: i + 1,
			Blocks: BlocksFromText(page),
		})
	}

	return doc, nil
}
