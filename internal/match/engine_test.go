package match

import (
	"math"
	"testing"
)

func TestMatch_ExactLabelOverride(t *testing.T) {
	cands := []Candidate{
		{Label: "Intro", Text: "welcome material"},
		{Label: "Body", Text: "main discussion"},
		{Label: "Conclusion", Text: "closing remarks"},
	}

	for _, mode := range []Mode{ModeLexical, ModeFuzzy} {
		e := NewEngine(mode, 0.2, 3)
		results, ok := e.Match("Intro", cands)
		if !ok {
			t.Fatalf("%s: expected acceptance for exact label match", mode)
		}
		if results[0].Label != "Intro" {
			t.Errorf("%s: expected top match Intro, got %q", mode, results[0].Label)
		}
		if results[0].Score != 1.0 {
			t.Errorf("%s: exact match must score exactly 1.0, got %v", mode, results[0].Score)
		}
	}
}

func TestMatch_ExactOverrideCaseInsensitive(t *testing.T) {
	e := NewEngine(ModeLexical, 0.2, 1)
	results, ok := e.Match("  REMEDIES ", []Candidate{{Label: "Remedies"}})
	if !ok || results[0].Score != 1.0 {
		t.Errorf("expected case-insensitive exact override, got %+v ok=%v", results, ok)
	}
}

func TestMatch_ThresholdGating(t *testing.T) {
	cands := []Candidate{
		{Label: "contract formation"},
		{Label: "breach remedies"},
	}
	e := NewEngine(ModeLexical, 0.2, 3)

	// A query sharing no vocabulary with any candidate scores 0.
	results, ok := e.Match("quantum chromodynamics", cands)
	if ok {
		t.Errorf("expected rejection below threshold, got %+v", results)
	}

	// A query matching candidate vocabulary clears the threshold.
	if _, ok := e.Match("breach remedies available", cands); !ok {
		t.Error("expected acceptance for overlapping vocabulary")
	}
}

func TestMatch_TopKOrderingAndTies(t *testing.T) {
	cands := []Candidate{
		{Label: "alpha topic"},
		{Label: "beta topic"},
		{Label: "gamma topic"},
		{Label: "delta topic"},
	}
	e := NewEngine(ModeLexical, 0.01, 3)

	results, ok := e.Match("topic", cands)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if len(results) != 3 {
		t.Fatalf("expected top-3, got %d", len(results))
	}
	// All candidates score identically on "topic"; stable sort keeps
	// input order for ties.
	if results[0].Label != "alpha topic" || results[1].Label != "beta topic" || results[2].Label != "gamma topic" {
		t.Errorf("tie-break by input order violated: %+v", results)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not descending at %d: %+v", i, results)
		}
	}
}

func TestMatch_EmptyCandidates(t *testing.T) {
	e := NewEngine(ModeLexical, 0.2, 3)
	if results, ok := e.Match("anything", nil); ok || results != nil {
		t.Errorf("expected no results for empty candidate set, got %+v", results)
	}
}

func TestMatch_FuzzyScoresWithinRange(t *testing.T) {
	cands := []Candidate{
		{Label: "Remedies for Breach", Text: "damages and specific performance for breach of contract"},
		{Label: "Offer and Acceptance", Text: "an offer must be communicated"},
	}
	e := NewEngine(ModeFuzzy, 0.01, 2)

	results, ok := e.Match("what are the remedies for breach", cands)
	if !ok {
		t.Fatal("expected acceptance")
	}
	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score out of range: %+v", r)
		}
	}
	if results[0].Label != "Remedies for Breach" {
		t.Errorf("expected remedies label on top, got %q", results[0].Label)
	}
}

func TestMatch_LexicalModelReuse(t *testing.T) {
	cands := []Candidate{{Label: "one"}, {Label: "two"}}
	e := NewEngine(ModeLexical, 0.01, 2)

	e.Match("one", cands)
	first := e.model
	if first == nil {
		t.Fatal("expected lazily built model")
	}

	e.Match("two", cands)
	if e.model != first {
		t.Error("expected model reuse for unchanged corpus")
	}

	// Changing the corpus rebuilds.
	e.Match("one", []Candidate{{Label: "one"}, {Label: "three"}})
	if e.model == first {
		t.Error("expected rebuild after corpus change")
	}
}

func TestCosine(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{1, 0}
	if got := cosine(a, b); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: expected 1, got %v", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %v", got)
	}
	if got := cosine([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Errorf("zero vector: expected 0, got %v", got)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Offer, Acceptance & Consideration!")
	want := []string{"offer", "acceptance", "consideration"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
