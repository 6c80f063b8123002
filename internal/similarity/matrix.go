// Package similarity computes and serves the all-pairs cosine similarity
// matrix over the vectorized catalog.
package similarity

import "math"

// Matrix is the N x N cosine similarity matrix. It is symmetric, every score
// lies in [0, 1], and it is read-only once built.
//
// Convention: a zero-magnitude vector has similarity 0 with everything,
// including itself, so the diagonal is 1.0 except for degenerate rows.
type Matrix struct {
	rows [][]float64
}

// Build computes pairwise cosine similarity for every vector pair. Vectors
// must share one dimensionality (guaranteed by the vectorizer contract).
func Build(vectors [][]float64) *Matrix {
	n := len(vectors)

	norms := make([]float64, n)
	for i, vec := range vectors {
		norms[i] = math.Sqrt(dot(vec, vec))
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		rows[i][i] = 1
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			s := dot(vectors[i], vectors[j]) / (norms[i] * norms[j])
			// Clamp accumulated float error so scores stay in [0, 1].
			if s > 1 {
				s = 1
			} else if s < 0 {
				s = 0
			}
			rows[i][j] = s
			rows[j][i] = s
		}
	}

	return &Matrix{rows: rows}
}

// Len returns the number of rows.
func (m *Matrix) Len() int { return len(m.rows) }

// Row returns the similarity scores of item i against every item, in catalog
// order. The returned slice is shared and must not be mutated.
func (m *Matrix) Row(i int) []float64 { return m.rows[i] }

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
