// Package segment partitions a document's block stream into labeled
// sections, either at detected headings (structural mode) or at the first
// occurrences of caller-supplied labels (keyword mode).
package segment

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docchat/internal/document"
)

// Mode selects the segmentation strategy. A single pass uses exactly one
// mode; the two are never mixed.
type Mode string

const (
	ModeStructural Mode = "structural"
	ModeKeyword    Mode = "keyword"
)

// DefaultWindowWords bounds a keyword section when no structural boundary
// is usable after the match.
const DefaultWindowWords = 400

// Segment partitions the document's blocks. labels is required for keyword
// mode and ignored in structural mode. windowWords <= 0 uses the default.
func Segment(doc *document.Document, mode Mode, labels []string, windowWords int) []document.Section {
	blocks := doc.Blocks()
	if mode == ModeKeyword {
		return Keyword(blocks, labels, windowWords)
	}
	return Structural(blocks)
}

// Structural starts a section at every heading block; content runs to the
// next heading or document end. Sections never overlap and their union
// covers the full block stream: content before the first heading becomes
// an unlabeled leading section.
func Structural(blocks []document.Block) []document.Section {
	var sections []document.Section
	start := 0
	label := ""

	flush := func(end int) {
		if end > start {
			sections = append(sections, document.Section{
				Label:  label,
				Blocks: blocks[start:end],
				Start:  start,
				End:    end,
				Found:  true,
			})
		}
	}

	for i, b := range blocks {
		if b.Kind == document.KindHeading {
			flush(i)
			start = i
			label = b.Text
		}
	}
	flush(len(blocks))

	return sections
}

// Labels returns the section labels in order, for use as match candidates.
func Labels(sections []document.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Label
	}
	return out
}

// Keyword produces one section per supplied label, in input order. A label
// absent from the text yields a sentinel section with Found=false, never an
// omission, so callers can tell "no content" from "absent label". Section
// i ends at the smallest start among later labels found after it, else at
// document end. Input order defines boundary precedence; labels are never
// reordered, and only a label's first text occurrence governs.
func Keyword(blocks []document.Block, labels []string, windowWords int) []document.Section {
	if windowWords <= 0 {
		windowWords = DefaultWindowWords
	}

	type hit struct {
		start   int
		heading bool
		found   bool
	}
	hits := make([]hit, len(labels))
	for i, label := range labels {
		idx, isHeading, ok := locate(blocks, label)
		hits[i] = hit{start: idx, heading: isHeading, found: ok}
	}

	sections := make([]document.Section, len(labels))
	for i, label := range labels {
		h := hits[i]
		if !h.found {
			sections[i] = document.Section{Label: label, Start: -1, End: -1}
			continue
		}

		end := len(blocks)
		for j := i + 1; j < len(labels); j++ {
			if hits[j].found && hits[j].start > h.start && hits[j].start < end {
				end = hits[j].start
			}
		}

		span := blocks[h.start:end]
		if !h.heading {
			// The match is mid-prose, not a structural boundary: bound the
			// section to a fixed word window so output cannot run away.
			span = truncateWords(span, windowWords)
			end = h.start + len(span)
		}

		sections[i] = document.Section{
			Label:  label,
			Blocks: span,
			Start:  h.start,
			End:    end,
			Found:  true,
		}
	}

	return sections
}

// locate finds the first block containing the label. A case-insensitive
// heading match wins; otherwise the first whole-word occurrence in any
// block's text.
func locate(blocks []document.Block, label string) (int, bool, bool) {
	want := strings.TrimSpace(label)
	for i, b := range blocks {
		if b.Kind == document.KindHeading && strings.EqualFold(strings.TrimSpace(b.Text), want) {
			return i, true, true
		}
	}
	for i, b := range blocks {
		if containsWord(b.Text, want) {
			return i, false, true
		}
	}
	return -1, false, false
}

// containsWord reports a case-insensitive whole-word (or whole-phrase)
// occurrence of label in text.
func containsWord(text, label string) bool {
	if label == "" {
		return false
	}
	lt := strings.ToLower(text)
	ll := strings.ToLower(label)
	for from := 0; ; {
		i := strings.Index(lt[from:], ll)
		if i < 0 {
			return false
		}
		i += from
		if boundaryBefore(lt, i) && boundaryAfter(lt, i+len(ll)) {
			return true
		}
		from = i + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(s[i-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func truncateWords(blocks []document.Block, limit int) []document.Block {
	var out []document.Block
	words := 0
	for _, b := range blocks {
		n := len(strings.Fields(b.Text))
		if words+n > limit && len(out) > 0 {
			break
		}
		out = append(out, b)
		words += n
		if words >= limit {
			break
		}
	}
	return out
}
