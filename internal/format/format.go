// Package format renders a section's blocks as annotated text: headings
// and list markers preserved, tables as grids with a styled header row,
// prose re-wrapped at sentence boundaries.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	"github.com/dgallion1/docchat/internal/normalize"
)

const (
	// NoSectionMessage is returned when a lookup produced no content.
	NoSectionMessage = "No relevant section found."

	tableStyle  = "border-collapse:collapse;width:100%;text-align:left;"
	headerStyle = "background-color:#d9ead3;padding:8px;font-weight:bold;"
	cellStyle   = "padding:6px"
)

// sentenceBreak inserts a visual break after sentence-ending punctuation
// followed by a capital letter. A heuristic, not a sentence tokenizer.
var sentenceBreak = regexp.MustCompile(`([.?!]) +([A-Z])`)

// arrowRepairs maps leftover marker variants to a single arrow glyph.
var arrowRepairs = strings.NewReplacer("->", "→", "➢", "→")

// Section renders one section as presentation-ready annotated text.
func Section(sec document.Section) string {
	if !sec.Found || len(sec.Blocks) == 0 {
		return NoSectionMessage
	}

	var sb strings.Builder
	sb.WriteString("<div class='formatted-answer'>")
	for _, b := range sec.Blocks {
		switch b.Kind {
		case document.KindHeading:
			sb.WriteString("<b>" + escape(b.Text) + "</b><br><br>")
		case document.KindListItem:
			sb.WriteString("• " + escape(b.Text) + "<br><br>")
		case document.KindTable:
			if b.Table != nil {
				sb.WriteString(tableHTML(b.Table))
			}
		default:
			sb.WriteString(paragraph(b.Text))
		}
	}
	sb.WriteString("</div>")
	return sb.String()
}

func paragraph(text string) string {
	s := escape(text)
	s = sentenceBreak.ReplaceAllString(s, "$1<br><br>$2")
	return "<p>" + s + "</p><br>"
}

// tableHTML renders a grid with the first row styled as the header.
func tableHTML(t *document.Table) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<table border='1' style='%s'>", tableStyle))
	for i, row := range t.Rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			text := escape(strings.TrimSpace(cell))
			if i == 0 {
				sb.WriteString(fmt.Sprintf("<th style='%s'>%s</th>", headerStyle, text))
			} else {
				sb.WriteString(fmt.Sprintf("<td style='%s'>%s</td>", cellStyle, text))
			}
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table><br>")
	return sb.String()
}

// escape protects literal content from being read as markup, then restores
// the allow-listed markers generated upstream and repairs arrow variants.
func escape(s string) string {
	out := normalize.EscapeText(arrowRepairs.Replace(s))
	out = normalize.RestoreAllowedMarkers(out)
	return strings.ReplaceAll(out, "\n", "<br>")
}
