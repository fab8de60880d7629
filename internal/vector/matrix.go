package vector

import "fmt"

// SimilarityMatrix is a dense, symmetric N x N matrix of pairwise cosine scores.
// The diagonal is exactly 1 and every entry lies in [0, 1]. It is read-only once built.
type SimilarityMatrix struct {
	n    int
	data []float64
}

// BuildSimilarity computes the similarity of every pair of rows. Rows are expected to be
// L2-normalized, so the inner product is the cosine. Each unordered pair is computed once
// and mirrored.
func BuildSimilarity(rows []SparseVector) *SimilarityMatrix {
	n := len(rows)
	m := &SimilarityMatrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			s := clamp01(InnerProduct(rows[i], rows[j]))
			m.data[i*n+j] = s
			m.data[j*n+i] = s
		}
	}
	return m
}

// Size returns N.
func (m *SimilarityMatrix) Size() int {
	return m.n
}

// At returns the similarity between rows i and j. It panics when either index is out of range.
func (m *SimilarityMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("vector: index (%d, %d) out of range for %dx%d matrix", i, j, m.n, m.n))
	}
	return m.data[i*m.n+j]
}

// Row returns a copy of row i.
func (m *SimilarityMatrix) Row(i int) []float64 {
	if i < 0 || i >= m.n {
		panic(fmt.Sprintf("vector: row %d out of range for %dx%d matrix", i, m.n, m.n))
	}
	out := make([]float64, m.n)
	copy(out, m.data[i*m.n:(i+1)*m.n])
	return out
}

// clamp01 absorbs floating-point drift just outside [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
