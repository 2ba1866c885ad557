package extract

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docchat/internal/document"
)

// classifyLine tags a single line using cheap local cues only: leading
// markers make a list item, a short all-caps line makes a heading,
// everything else is a paragraph. The intermediate form stays
// deterministic for a given input.
func classifyLine(line string) document.BlockKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return document.KindParagraph
	}
	if hasListMarker(trimmed) {
		return document.KindListItem
	}
	if isHeadingLine(trimmed) {
		return document.KindHeading
	}
	return document.KindParagraph
}

var listMarkers = []string{"•", "-", "*", "→", "➢", "◦"}

func hasListMarker(line string) bool {
	for _, m := range listMarkers {
		if strings.HasPrefix(line, m+" ") {
			return true
		}
	}
	// Numbered items: "1. text", "2) text".
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line)-1 && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return true
	}
	return false
}

// isHeadingLine flags short lines whose letters are all uppercase and that
// carry no sentence-ending punctuation.
func isHeadingLine(line string) bool {
	if len(line) > 80 || len(strings.Fields(line)) > 10 {
		return false
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") || strings.HasSuffix(line, ";") {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// StripListMarker removes the leading list marker from a classified
// list-item line.
func StripListMarker(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, m := range listMarkers {
		if strings.HasPrefix(trimmed, m+" ") {
			return strings.TrimSpace(trimmed[len(m)+1:])
		}
	}
	return trimmed
}

// BlocksFromText converts one page of plain text into ordered blocks.
// Tabular regions are detected first and their lines excluded from the
// prose stream so table content is never duplicated.
func BlocksFromText(text string) []document.Block {
	lines := strings.Split(text, "\n")
	regions := detectTableRegions(lines)

	var blocks []document.Block
	var para []string

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, document.Block{
				Kind: document.KindParagraph,
				Text: strings.Join(para, "\n"),
			})
			para = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		if reg, ok := regions[i]; ok {
			flush()
			blocks = append(blocks, document.Block{
				Kind:  document.KindTable,
				Text:  reg.table.PlainText(),
				Table: reg.table,
			})
			i = reg.end - 1
			continue
		}

		line := strings.TrimSpace(lines[i])
		if line == "" {
			flush()
			continue
		}

		switch classifyLine(line) {
		case document.KindHeading:
			flush()
			blocks = append(blocks, document.Block{Kind: document.KindHeading, Text: line})
		case document.KindListItem:
			flush()
			blocks = append(blocks, document.Block{Kind: document.KindListItem, Text: StripListMarker(line)})
		default:
			para = append(para, line)
		}
	}
	flush()

	return blocks
}
