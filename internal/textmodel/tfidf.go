// Package textmodel implements the trained text classifiers used by
// the stormwater pipeline: a TF-IDF vectorizer feeding a binary
// logistic regression. Models are fitted from annotated project
// descriptions and persisted as JSON alongside a YAML manifest.
package textmodel

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Vectorizer defaults, matching the fitted models' configuration.
const (
	DefaultMaxFeatures = 3000
	DefaultMaxDFRatio  = 0.90
	DefaultNgramMax    = 2
)

// Tokens are runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Vectorizer converts text into L2-normalized TF-IDF feature vectors
// over a vocabulary of unigrams and bigrams learned at fit time.
type Vectorizer struct {
	// Vocabulary maps a term to its feature index.
	Vocabulary map[string]int `json:"vocabulary"`
	// IDF holds the smoothed inverse document frequency per index.
	IDF []float64 `json:"idf"`

	// MaxFeatures caps the vocabulary size; highest-count terms win.
	MaxFeatures int `json:"max_features"`
	// MaxDFRatio drops terms appearing in more than this fraction of
	// documents.
	MaxDFRatio float64 `json:"max_df_ratio"`
	// NgramMax is the largest n-gram length (1 = unigrams only).
	NgramMax int `json:"ngram_max"`
}

// NewVectorizer returns a vectorizer with the default configuration.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: DefaultMaxFeatures,
		MaxDFRatio:  DefaultMaxDFRatio,
		NgramMax:    DefaultNgramMax,
	}
}

// terms tokenizes text and expands it into stopword-filtered n-grams.
func (v *Vectorizer) terms(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if !isStopword(tok) {
			tokens = append(tokens, tok)
		}
	}

	terms := make([]string, 0, len(tokens)*v.NgramMax)
	for n := 1; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Fit learns the vocabulary and IDF weights from the corpus.
func (v *Vectorizer) Fit(corpus []string) {
	df := make(map[string]int)
	total := make(map[string]int)

	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range v.terms(doc) {
			total[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	// Drop overly common terms.
	maxDF := int(v.MaxDFRatio * float64(len(corpus)))
	if maxDF < 1 {
		maxDF = 1
	}
	kept := make([]string, 0, len(df))
	for term, count := range df {
		if count <= maxDF {
			kept = append(kept, term)
		}
	}

	// Keep the most frequent terms up to MaxFeatures, breaking ties
	// alphabetically so fitting is deterministic.
	sort.Slice(kept, func(i, j int) bool {
		if total[kept[i]] != total[kept[j]] {
			return total[kept[i]] > total[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		kept = kept[:v.MaxFeatures]
	}
	sort.Strings(kept)

	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	n := float64(len(corpus))
	for i, term := range kept {
		v.Vocabulary[term] = i
		// Smoothed IDF: ln((1+n)/(1+df)) + 1.
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
}

// Transform maps text to a sparse L2-normalized TF-IDF vector keyed by
// feature index.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range v.terms(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx := range vec {
		vec[idx] *= v.IDF[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// NumFeatures returns the fitted vocabulary size.
func (v *Vectorizer) NumFeatures() int {
	return len(v.Vocabulary)
}
