package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docchat/internal/document"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"notes.txt", false},
		{"readme.md", false},
		{"data.csv", false},
		{"page.html", false},
		{"syllabus.pdf", false},
		{"report.docx", false},
		{"image.png", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
		}
	}
}

func TestDocID(t *testing.T) {
	tests := []struct {
		ref, want string
	}{
		{"contract_law.pdf", "contract_law"},
		{"/srv/docs/contract_law.pdf", "contract_law"},
		{"https://example.com/docs/syllabus.pdf", "syllabus"},
		{"https://example.com/docs/syllabus.pdf?v=2", "syllabus"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := DocID(tt.ref); got != tt.want {
			t.Errorf("DocID(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestTextExtractor_PagesByFormFeed(t *testing.T) {
	input := "FIRST PAGE\nsome text here\fSECOND PAGE\nmore text"
	ex := &TextExtractor{}
	doc, err := ex.Extract(strings.NewReader(input), "doc.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 || doc.Pages[1].Number != 2 {
		t.Errorf("page numbers wrong: %d, %d", doc.Pages[0].Number, doc.Pages[1].Number)
	}
	if doc.Pages[0].Blocks[0].Kind != document.KindHeading {
		t.Errorf("expected first block heading, got %q", doc.Pages[0].Blocks[0].Kind)
	}
	if doc.ID != "doc" {
		t.Errorf("expected ID %q, got %q", "doc", doc.ID)
	}
}

func TestCSVExtractor_SingleTable(t *testing.T) {
	input := "name,fee\nfiling,100\nreview,250\n"
	ex := &CSVExtractor{}
	doc, err := ex.Extract(strings.NewReader(input), "fees.csv")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Blocks) != 1 {
		t.Fatalf("expected 1 page / 1 block, got %+v", doc.Pages)
	}
	b := doc.Pages[0].Blocks[0]
	if b.Kind != document.KindTable || b.Table == nil {
		t.Fatalf("expected table block, got %q", b.Kind)
	}
	if len(b.Table.Rows) != 3 || b.Table.Rows[0][1] != "fee" {
		t.Errorf("unexpected rows: %+v", b.Table.Rows)
	}
}

func TestHTMLExtractor_Blocks(t *testing.T) {
	input := `<html><head><title>Syllabus</title></head><body>
<h2>Introduction</h2>
<p>Welcome to the course.</p>
<ul><li>first topic</li><li>second topic</li></ul>
<table><tr><th>Week</th><th>Topic</th></tr><tr><td>1</td><td>Basics</td></tr></table>
<script>ignore me</script>
</body></html>`

	ex := &HTMLExtractor{}
	doc, err := ex.Extract(strings.NewReader(input), "syllabus.html")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Title != "Syllabus" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}

	blocks := doc.Pages[0].Blocks
	wantKinds := []document.BlockKind{
		document.KindHeading,
		document.KindParagraph,
		document.KindListItem,
		document.KindListItem,
		document.KindTable,
	}
	if len(blocks) != len(wantKinds) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(wantKinds), len(blocks), blocks)
	}
	for i, want := range wantKinds {
		if blocks[i].Kind != want {
			t.Errorf("block %d: expected %q, got %q", i, want, blocks[i].Kind)
		}
	}
	if blocks[4].Table.Rows[0][0] != "Week" {
		t.Errorf("expected table header %q, got %+v", "Week", blocks[4].Table.Rows)
	}
	for _, b := range blocks {
		if strings.Contains(b.Text, "ignore me") {
			t.Error("script content leaked into blocks")
		}
	}
}

func TestMarkdownExtractor_Blocks(t *testing.T) {
	input := "# Intro\n\nSome prose here.\n\n- alpha\n- beta\n"
	ex := &MarkdownExtractor{}
	doc, err := ex.Extract(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	blocks := doc.Pages[0].Blocks
	wantKinds := []document.BlockKind{
		document.KindHeading,
		document.KindParagraph,
		document.KindListItem,
		document.KindListItem,
	}
	if len(blocks) != len(wantKinds) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(wantKinds), len(blocks), blocks)
	}
	if blocks[0].Text != "Intro" {
		t.Errorf("expected heading text %q, got %q", "Intro", blocks[0].Text)
	}
	if blocks[2].Text != "alpha" {
		t.Errorf("expected list item %q, got %q", "alpha", blocks[2].Text)
	}
}

func TestPDFExtractor_CorruptBytes(t *testing.T) {
	ex := &PDFExtractor{}
	_, err := ex.Extract(strings.NewReader("this is not a pdf"), "bad.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf bytes")
	}
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Errorf("expected *ExtractionError, got %T", err)
	}
}
