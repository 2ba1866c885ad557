package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor converts Markdown into blocks using goldmark.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: err}
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &document.Document{
		ID:    DocID(filename),
		Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown"),
	}

	var blocks []document.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if t := string(node.Text(src)); t != "" {
				blocks = append(blocks, document.Block{Kind: document.KindHeading, Text: t})
			}
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if t := nodeText(item, src); t != "" {
					blocks = append(blocks, document.Block{Kind: document.KindListItem, Text: t})
				}
			}
		default:
			if t := nodeText(n, src); t != "" {
				blocks = append(blocks, document.Block{Kind: document.KindParagraph, Text: t})
			}
		}
	}

	doc.Pages = []document.Page{{Number: 1, Blocks: blocks}}
	return doc, nil
}

// nodeText gets the text content of a goldmark AST node.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
