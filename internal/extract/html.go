package extract

import (
	"io"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	"golang.org/x/net/html"
)

// HTMLExtractor converts HTML into blocks: h1-h6 become headings, li become
// list items, tables become grids, paragraph-ish elements become paragraphs.
type HTMLExtractor struct{}

func (p *HTMLExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: err}
	}

	doc := &document.Document{
		ID:    DocID(filename),
		Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm"),
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	var blocks []document.Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case headingLevel(n.Data) > 0:
				if t := textContent(n); t != "" {
					blocks = append(blocks, document.Block{Kind: document.KindHeading, Text: t})
				}
				return
			case n.Data == "li":
				if t := textContent(n); t != "" {
					blocks = append(blocks, document.Block{Kind: document.KindListItem, Text: t})
				}
				return
			case n.Data == "table":
				if tbl := tableFromNode(n); tbl != nil {
					blocks = append(blocks, document.Block{
						Kind:  document.KindTable,
						Text:  tbl.PlainText(),
						Table: tbl,
					})
				}
				return
			case n.Data == "p" || n.Data == "blockquote" || n.Data == "pre":
				if t := textContent(n); t != "" {
					blocks = append(blocks, document.Block{Kind: document.KindParagraph, Text: t})
				}
				return
			case n.Data == "script" || n.Data == "style" || n.Data == "nav" ||
				n.Data == "footer" || n.Data == "header":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	doc.Pages = []document.Page{{Number: 1, Blocks: blocks}}
	return doc, nil
}

func tableFromNode(n *html.Node) *document.Table {
	var rows [][]string
	var findRows func(*html.Node)
	findRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, textContent(c))
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findRows(c)
		}
	}
	findRows(n)
	if len(rows) == 0 {
		return nil
	}
	return &document.Table{Rows: rows}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
