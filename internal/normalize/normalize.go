package normalize

import (
	"html"
	"regexp"
	"strings"
)

// Rule is one ordered repair step: a regex pattern and its replacement.
// Rules are data, not logic: corpus-specific artifact tables load from
// configuration and run in order.
type Rule struct {
	Pattern string `json:"pattern"`
	Replace string `json:"replace"`

	re *regexp.Regexp
}

// Normalizer applies an ordered rule table to raw extracted text.
// Normalization is idempotent: each rule's output is a fixed point of
// its own pattern.
type Normalizer struct {
	rules []Rule
}

// New compiles the given rules into a Normalizer. Invalid patterns error.
func New(rules []Rule) (*Normalizer, error) {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		r.re = re
		compiled[i] = r
	}
	return &Normalizer{rules: compiled}, nil
}

// Normalize repairs extraction artifacts in raw block text: joins broken
// line continuations, collapses repeated whitespace, and applies the
// configured substitution table. Semantic content is left alone.
func (n *Normalizer) Normalize(text string) string {
	s := html.UnescapeString(text)
	for _, r := range n.rules {
		s = r.re.ReplaceAllString(s, r.Replace)
	}
	return strings.TrimSpace(s)
}

// EscapeText escapes raw content for embedding in annotated output, so
// literal text can never be misread as structural markup.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// allowedMarkers are upstream-generated markup sequences the formatter is
// allowed to restore after escaping. Everything else stays escaped.
var allowedMarkers = []*regexp.Regexp{
	regexp.MustCompile(`&lt;br&gt;`),
	regexp.MustCompile(`&lt;a href=&#34;([^&]*)&#34;&gt;`),
	regexp.MustCompile(`&lt;/a&gt;`),
}

var allowedReplacements = []string{
	`<br>`,
	`<a href="$1">`,
	`</a>`,
}

// RestoreAllowedMarkers re-inserts the small allow-listed marker set
// (line breaks, hyperlinks) that escaping turned into literals.
func RestoreAllowedMarkers(s string) string {
	for i, re := range allowedMarkers {
		s = re.ReplaceAllString(s, allowedReplacements[i])
	}
	return s
}
