// Package vector provides sparse term vectors and the pairwise cosine similarity matrix.
package vector

import "math"

// SparseVector holds the non-zero entries of a row. Indices are strictly increasing
// and Values[i] is the weight at column Indices[i].
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// IsZero reports whether the vector has no non-zero entries.
func (v SparseVector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Get returns the weight at column col, or 0 when the column is not stored.
func (v SparseVector) Get(col int) float64 {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case v.Indices[mid] == col:
			return v.Values[mid]
		case v.Indices[mid] < col:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// InnerProduct returns the inner product of two sparse vectors (for normalized vectors equals cosine similarity).
func InnerProduct(a, b SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x SparseVector) float64 {
	var sum float64
	for _, v := range x.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// NormalizeL2 scales x in place to unit L2 norm.
// If the norm is zero, x is unchanged.
func NormalizeL2(x SparseVector) {
	norm := L2Norm(x)
	if norm == 0 {
		return
	}
	for i := range x.Values {
		x.Values[i] /= norm
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when either is all-zero.
func Cosine(a, b SparseVector) float64 {
	na, nb := L2Norm(a), L2Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return InnerProduct(a, b) / (na * nb)
}
