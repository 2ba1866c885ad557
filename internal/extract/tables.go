package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
)

// columnSplit separates cells on tabs or runs of two-plus spaces.
var columnSplit = regexp.MustCompile(`\t+| {2,}`)

type tableRegion struct {
	start, end int // line range, end exclusive
	table      *document.Table
}

// detectTableRegions finds runs of consecutive lines that share a
// multi-column shape. Two or more adjacent lines with at least two cells
// each form a table; the first row is treated as the header. The result
// maps each region's start line to the region.
func detectTableRegions(lines []string) map[int]tableRegion {
	regions := make(map[int]tableRegion)

	i := 0
	for i < len(lines) {
		cells := splitColumns(lines[i])
		if len(cells) < 2 {
			i++
			continue
		}

		j := i + 1
		rows := [][]string{cells}
		for j < len(lines) {
			next := splitColumns(lines[j])
			if len(next) < 2 {
				break
			}
			rows = append(rows, next)
			j++
		}

		if len(rows) >= 2 {
			regions[i] = tableRegion{
				start: i,
				end:   j,
				table: &document.Table{Rows: rows},
			}
			i = j
			continue
		}
		i++
	}

	return regions
}

func splitColumns(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	parts := columnSplit.Split(trimmed, -1)
	var cells []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}
