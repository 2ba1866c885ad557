package document

import "strings"

// BlockKind classifies a block of extracted content.
type BlockKind string

const (
	KindHeading   BlockKind = "heading"
	KindParagraph BlockKind = "paragraph"
	KindListItem  BlockKind = "list_item"
	KindTable     BlockKind = "table"
)

// Block is a tagged unit of content in document order.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text"`
	Table *Table    `json:"table,omitempty"` // set only when Kind == KindTable
}

// Table is an ordered grid of cell values. The first row is the header.
type Table struct {
	Rows [][]string `json:"rows"`
}

// PlainText renders the table as tab-separated rows, for search and scoring.
func (t *Table) PlainText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Page is an ordered sequence of blocks from one source page.
type Page struct {
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}

// Document is the structured representation of one source document.
// Immutable once extracted; cached by ID for the process lifetime.
type Document struct {
	ID    string `json:"id"` // base identifier (path or URL basename)
	Title string `json:"title"`
	Pages []Page `json:"pages"`
}

// Blocks returns all blocks across pages, in document order.
func (d *Document) Blocks() []Block {
	var out []Block
	for _, p := range d.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}

// Section is a labeled span of blocks.
type Section struct {
	Label  string  `json:"label"`
	Blocks []Block `json:"blocks"`
	Start  int     `json:"start"` // block offset of first block, inclusive
	End    int     `json:"end"`   // block offset past the last block
	Found  bool    `json:"found"` // false for keyword-mode labels absent from the text
}

// Text returns the section's content as plain text, blocks joined by newlines.
func (s *Section) Text() string {
	var parts []string
	for _, b := range s.Blocks {
		if b.Kind == KindTable && b.Table != nil {
			parts = append(parts, b.Table.PlainText())
			continue
		}
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n")
}

// Match is one ranked retrieval result. Produced per query, never persisted.
type Match struct {
	Label  string  `json:"keyword"`
	Score  float64 `json:"confidence"`
	Answer string  `json:"answer"`
}
