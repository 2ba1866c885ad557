package match

import (
	"math"
	"strings"
	"unicode"
)

// tfidfModel is a term-frequency/inverse-document-frequency vector space
// over a fixed candidate corpus. Vectors are L2-normalized at build time.
type tfidfModel struct {
	vocab   map[string]int
	idf     []float64
	docVecs [][]float64
}

// fitTFIDF builds the vocabulary, smoothed IDF weights, and normalized
// document vectors for the corpus.
func fitTFIDF(docs []string) *tfidfModel {
	vocab := make(map[string]int)
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		for _, t := range tokens {
			if _, ok := vocab[t]; !ok {
				vocab[t] = len(vocab)
			}
		}
	}

	df := make([]int, len(vocab))
	for _, tokens := range tokenized {
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				df[vocab[t]]++
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	m := &tfidfModel{vocab: vocab, idf: idf}
	m.docVecs = make([][]float64, len(docs))
	for i, tokens := range tokenized {
		m.docVecs[i] = m.vectorize(tokens)
	}
	return m
}

// transform embeds arbitrary text in the model's vector space. Terms
// outside the vocabulary contribute nothing.
func (m *tfidfModel) transform(text string) []float64 {
	return m.vectorize(tokenize(text))
}

func (m *tfidfModel) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(m.vocab))
	for _, t := range tokens {
		if idx, ok := m.vocab[t]; ok {
			vec[idx] += m.idf[idx]
		}
	}
	normalize(vec)
	return vec
}

// cosine returns the cosine similarity of two same-space vectors, 0 when
// either has zero magnitude.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
