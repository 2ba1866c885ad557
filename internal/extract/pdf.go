package extract

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor reads PDF bytes into pages of tagged blocks. It prefers the
// native text layer and falls back to positional word clustering when a
// page has no usable layer.
type PDFExtractor struct{}

func (p *PDFExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: err}
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: err}
	}

	doc := &document.Document{
		ID:    DocID(filename),
		Title: strings.TrimSuffix(filename, ".pdf"),
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			// Unreadable page: empty block list, never an abort.
			doc.Pages = append(doc.Pages, document.Page{Number: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			text = positionalText(page)
		}

		doc.Pages = append(doc.Pages, document.Page{
			Number: i,
			Blocks: BlocksFromText(text),
		})
	}

	return doc, nil
}

// positionalText reconstructs reading order for a page without a usable
// text layer: words group into rows by vertical coordinate and order by
// horizontal coordinate within a row. PDF Y grows upward, so rows sort by
// descending Y.
func positionalText(page pdflib.Page) string {
	content := page.Content()
	words := make([]pdflib.Text, len(content.Text))
	copy(words, content.Text)

	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Y != words[j].Y {
			return words[i].Y > words[j].Y
		}
		return words[i].X < words[j].X
	})

	var lines []string
	var row []pdflib.Text
	rowY := 0.0

	flush := func() {
		if len(row) == 0 {
			return
		}
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		var sb strings.Builder
		for k, w := range row {
			if k > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(w.S)
		}
		lines = append(lines, sb.String())
		row = nil
	}

	for _, w := range words {
		if strings.TrimSpace(w.S) == "" {
			continue
		}
		tol := rowTolerance(w.FontSize)
		if len(row) > 0 && rowY-w.Y > tol {
			flush()
		}
		if len(row) == 0 {
			rowY = w.Y
		}
		row = append(row, w)
	}
	flush()

	return strings.Join(lines, "\n")
}

func rowTolerance(fontSize float64) float64 {
	tol := fontSize * 0.4
	if tol < 2 {
		tol = 2
	}
	return tol
}
