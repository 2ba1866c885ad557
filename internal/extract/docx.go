package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXExtractor handles .docx files. Paragraphs with a heading style become
// heading blocks; the rest are classified line-heuristically.
type DOCXExtractor struct{}

func (p *DOCXExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "docchat-docx-*.docx")
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, &ExtractionError{Source: filename, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, &ExtractionError{Source: filename, Err: fmt.Errorf("seek temp file: %w", err)}
	}

	parsed, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: fmt.Errorf("parse docx: %w", err)}
	}

	doc := &document.Document{
		ID:    DocID(filename),
		Title: strings.TrimSuffix(filename, ".docx"),
	}

	var blocks []document.Block
	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if docxHeadingLevel(para) > 0 {
			blocks = append(blocks, document.Block{Kind: document.KindHeading, Text: text})
			continue
		}
		kind := classifyLine(text)
		if kind == document.KindListItem {
			text = StripListMarker(text)
		}
		blocks = append(blocks, document.Block{Kind: kind, Text: text})
	}

	doc.Pages = []document.Page{{Number: 1, Blocks: blocks}}
	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	for lvl := 1; lvl <= 6; lvl++ {
		if style == fmt.Sprintf("heading%d", lvl) {
			return lvl
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
