// Package tfidf implements the default corpus vectorizer: term frequency
// weighted by smoothed inverse document frequency, L2-normalized per row.
package tfidf

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Tokens are runs of two or more letters or digits; single-character tokens
// like "a" carry no signal and would otherwise link unrelated documents.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// Vectorizer computes TF-IDF weight vectors over a shared vocabulary built
// from the whole corpus. The zero value is ready to use.
type Vectorizer struct{}

// New creates a TF-IDF vectorizer.
func New() *Vectorizer { return &Vectorizer{} }

// Vectorize builds the vocabulary from docs and returns one weight vector per
// document. Weight = term count in the document x log((1+N)/(1+df)) + 1, with
// each row L2-normalized. Vocabulary columns are assigned in sorted term
// order, so identical ordered input yields identical vectors.
//
// A corpus with no tokens at all yields zero vectors of dimension 1 rather
// than an error; cosine similarity against a zero vector is defined as 0
// downstream.
func (v *Vectorizer) Vectorize(_ context.Context, docs []string) ([][]float64, error) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		seen := make(map[string]struct{}, len(tokenized[i]))
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	dim := len(terms)
	if dim == 0 {
		dim = 1 // degenerate corpus: all-zero vectors, uniform dimensionality
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, tokens := range tokenized {
		vec := make([]float64, dim)
		for _, tok := range tokens {
			if col, ok := vocab[tok]; ok {
				vec[col] += idf[col]
			}
		}
		normalize(vec)
		vectors[i] = vec
	}

	return vectors, nil
}

func tokenize(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

func normalize(vec []float64) {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
