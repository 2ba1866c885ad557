package normalize

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultRules returns the built-in artifact table. The corpus this service
// was first built for produced private-use bullet glyphs, mid-word line
// breaks, and a few recurring OCR-style word splits; each has one rule here.
// Order matters: the case-boundary join must run before the general join.
func DefaultRules() []Rule {
	return []Rule{
		// Stray bullet/arrow glyphs from the PDF text layer.
		{Pattern: "[•➢]", Replace: "→"},
		// A lowercase line ending followed by a capitalized line is a
		// sentence boundary the extractor dropped.
		{Pattern: `([a-z])[ \t]*\n[ \t]*([A-Z])`, Replace: "$1. $2"},
		// Any other word broken across a line continuation.
		{Pattern: `(\w)[ \t]*\n[ \t]*(\w)`, Replace: "$1 $2"},
		// Known per-corpus word splits.
		{Pattern: `(?i)\bL\s+aw\b`, Replace: "Law"},
		{Pattern: `(?i)\b(?:ontract|ontrac|ontra)\b`, Replace: "Contract"},
		// Collapse repeated spaces/tabs last.
		{Pattern: `[ \t]{2,}`, Replace: " "},
	}
}

// LoadRules reads an ordered rule table from a JSON file. A missing path
// falls back to the defaults.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return rules, nil
}
