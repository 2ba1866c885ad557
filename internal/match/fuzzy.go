package match

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// fuzzyScore rates a candidate against the query in [0,1]: token-set
// similarity on the label, blended with a partial-overlap signal from the
// section text when one is available.
func fuzzyScore(query string, c Candidate) float64 {
	label := float64(fuzzy.TokenSetRatio(query, c.Label)) / 100
	if c.Text == "" {
		return label
	}
	text := float64(fuzzy.PartialRatio(query, c.Text)) / 100
	return blendLabel*label + blendText*text
}
