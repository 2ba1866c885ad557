// Package match scores a free-text query against candidate section labels
// (and optionally their text) and ranks the results. Two models are
// available: a TF-IDF vector space with cosine scoring, and a fuzzy
// token-overlap score.
package match

import (
	"sort"
	"strings"
	"sync"
)

// Mode selects the scoring model.
type Mode string

const (
	ModeLexical Mode = "lexical"
	ModeFuzzy   Mode = "fuzzy"
)

// Default tuning, from the corpus this service was first deployed against.
const (
	DefaultThreshold = 0.2
	DefaultTopK      = 3

	// Blend weights for fuzzy mode when section text is available.
	blendLabel = 0.65
	blendText  = 0.35
)

// Candidate is one section label, optionally with its text.
type Candidate struct {
	Label string
	Text  string
}

// Result is one scored candidate.
type Result struct {
	Label string
	Score float64
	Index int // position in the candidate input
}

// Engine ranks candidates against queries. The lexical vector model is
// built lazily on first use and reused until the candidate corpus changes;
// callers must not mutate candidates concurrently with Match.
type Engine struct {
	mode      Mode
	threshold float64
	topK      int

	mu    sync.Mutex
	sig   string
	model *tfidfModel
}

// NewEngine creates an engine. threshold <= 0 and topK <= 0 take defaults.
func NewEngine(mode Mode, threshold float64, topK int) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{mode: mode, threshold: threshold, topK: topK}
}

// Threshold returns the configured confidence threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// Match scores the query against every candidate and returns the top-k
// results, descending by score, ties broken by input order. ok is false
// when no candidate clears the confidence threshold; the caller should
// answer "not understood" rather than return a low-quality best effort.
//
// An exact case-insensitive match between query and a candidate label
// always forces that candidate's score to 1.0, in both modes, so literal
// keyword lookups can never lose to model noise.
func (e *Engine) Match(query string, cands []Candidate) ([]Result, bool) {
	if len(cands) == 0 {
		return nil, false
	}
	query = strings.TrimSpace(query)

	results := make([]Result, len(cands))
	switch e.mode {
	case ModeFuzzy:
		for i, c := range cands {
			results[i] = Result{Label: c.Label, Score: fuzzyScore(query, c), Index: i}
		}
	default:
		model := e.lexicalModel(cands)
		qvec := model.transform(query)
		for i, c := range cands {
			results[i] = Result{Label: c.Label, Score: cosine(qvec, model.docVecs[i]), Index: i}
		}
	}

	for i, c := range cands {
		if c.Label != "" && strings.EqualFold(query, strings.TrimSpace(c.Label)) {
			results[i].Score = 1.0
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if results[0].Score < e.threshold {
		return results[:1], false
	}

	k := e.topK
	if k > len(results) {
		k = len(results)
	}
	return results[:k], true
}

// lexicalModel returns the cached vector model, rebuilding it when the
// candidate corpus has changed since the last call.
func (e *Engine) lexicalModel(cands []Candidate) *tfidfModel {
	sig := corpusSignature(cands)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil && e.sig == sig {
		return e.model
	}

	docs := make([]string, len(cands))
	for i, c := range cands {
		docs[i] = c.Label
		if c.Text != "" {
			docs[i] += " " + c.Text
		}
	}
	e.model = fitTFIDF(docs)
	e.sig = sig
	return e.model
}

func corpusSignature(cands []Candidate) string {
	var sb strings.Builder
	for _, c := range cands {
		sb.WriteString(c.Label)
		sb.WriteByte(0)
		sb.WriteString(c.Text)
		sb.WriteByte(0)
	}
	return sb.String()
}
