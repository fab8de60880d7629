package vector

import (
	"math/rand"
	"testing"
)

func randomRows(r *rand.Rand, n, dim int) []SparseVector {
	rows := make([]SparseVector, n)
	for i := range rows {
		var v SparseVector
		for c := 0; c < dim; c++ {
			if r.Float64() < 0.3 {
				v.Indices = append(v.Indices, c)
				v.Values = append(v.Values, r.Float64())
			}
		}
		NormalizeL2(v)
		rows[i] = v
	}
	return rows
}

func TestBuildSimilarity_properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	rows := randomRows(r, 25, 40)
	rows = append(rows, SparseVector{})
	m := BuildSimilarity(rows)
	if m.Size() != len(rows) {
		t.Fatalf("Size() = %d, want %d", m.Size(), len(rows))
	}
	for i := 0; i < m.Size(); i++ {
		if m.At(i, i) != 1 {
			t.Errorf("diagonal (%d) = %v, want exactly 1", i, m.At(i, i))
		}
		for j := 0; j < m.Size(); j++ {
			s := m.At(i, j)
			if s < 0 || s > 1 {
				t.Errorf("At(%d,%d) = %v outside [0,1]", i, j, s)
			}
			if s != m.At(j, i) {
				t.Errorf("At(%d,%d) = %v != At(%d,%d) = %v", i, j, s, j, i, m.At(j, i))
			}
		}
	}
	last := m.Size() - 1
	for j := 0; j < last; j++ {
		if m.At(last, j) != 0 {
			t.Errorf("zero row similarity to %d = %v, want 0", j, m.At(last, j))
		}
	}
}

func TestBuildSimilarity_identicalRows(t *testing.T) {
	a := sv([]int{0, 3}, []float64{0.6, 0.8})
	b := sv([]int{0, 3}, []float64{0.6, 0.8})
	m := BuildSimilarity([]SparseVector{a, b})
	if s := m.At(0, 1); s > 1 || 1-s > 1e-12 {
		t.Errorf("identical rows: At(0,1) = %v, want 1", s)
	}
}

func TestRow_isCopy(t *testing.T) {
	m := BuildSimilarity([]SparseVector{sv([]int{0}, []float64{1}), sv([]int{0}, []float64{1})})
	row := m.Row(0)
	row[1] = -5
	if m.At(0, 1) != 1 {
		t.Error("Row must return a copy")
	}
}

func TestAt_panicsOutOfRange(t *testing.T) {
	m := BuildSimilarity([]SparseVector{{}})
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_ = m.At(0, 1)
}
