package tfidf

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

const eps = 1e-6

func TestFit_smoothedIDFAndNormalization(t *testing.T) {
	m, err := Fit([]string{"apple banana", "apple cherry"}, Options{NGramMax: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Vocabulary(); !reflect.DeepEqual(got, []string{"apple", "banana", "cherry"}) {
		t.Fatalf("Vocabulary() = %v", got)
	}
	apple, _ := m.Column("apple")
	banana, _ := m.Column("banana")
	if math.Abs(m.IDF(apple)-1) > eps {
		t.Errorf("idf(apple) = %v, want 1", m.IDF(apple))
	}
	wantIDF := math.Log(3.0/2.0) + 1
	if math.Abs(m.IDF(banana)-wantIDF) > eps {
		t.Errorf("idf(banana) = %v, want %v", m.IDF(banana), wantIDF)
	}
	row := m.Row(0)
	if math.Abs(row.Get(apple)-0.579739) > eps || math.Abs(row.Get(banana)-0.814802) > eps {
		t.Errorf("row 0 = %+v", row)
	}
	for i := 0; i < m.Len(); i++ {
		var sum float64
		for _, v := range m.Row(i).Values {
			sum += v * v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d squared norm = %v, want 1", i, sum)
		}
	}
}

func TestFit_columnsSortedAndIndicesIncreasing(t *testing.T) {
	m, err := Fit([]string{"zebra yak xylophone", "yak walrus"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	vocab := m.Vocabulary()
	for i := 1; i < len(vocab); i++ {
		if vocab[i-1] >= vocab[i] {
			t.Fatalf("vocabulary not sorted: %v", vocab)
		}
	}
	for i := 0; i < m.Len(); i++ {
		idx := m.Row(i).Indices
		for j := 1; j < len(idx); j++ {
			if idx[j-1] >= idx[j] {
				t.Errorf("row %d indices not increasing: %v", i, idx)
			}
		}
	}
	if _, ok := m.Column("zebra yak"); !ok {
		t.Error("bigram zebra yak should be in the vocabulary")
	}
}

func TestFit_maxFeaturesTieBreak(t *testing.T) {
	m, err := Fit([]string{"zeta alpha beta", "alpha gamma"}, Options{NGramMax: 1, MaxFeatures: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Vocabulary(); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("Vocabulary() = %v, want [alpha beta]", got)
	}
	if m.Row(1).NNZ() != 1 {
		t.Errorf("gamma is outside the vocabulary; row 1 = %+v", m.Row(1))
	}
}

func TestFit_sublinearTF(t *testing.T) {
	raw, err := Fit([]string{"rain rain rain sun"}, Options{NGramMax: 1})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := Fit([]string{"rain rain rain sun"}, Options{NGramMax: 1, SublinearTF: true})
	if err != nil {
		t.Fatal(err)
	}
	rain, _ := raw.Column("rain")
	sun, _ := raw.Column("sun")
	rawRatio := raw.Row(0).Get(rain) / raw.Row(0).Get(sun)
	subRatio := sub.Row(0).Get(rain) / sub.Row(0).Get(sun)
	if math.Abs(rawRatio-3) > eps {
		t.Errorf("raw tf ratio = %v, want 3", rawRatio)
	}
	if want := 1 + math.Log(3); math.Abs(subRatio-want) > eps {
		t.Errorf("sublinear tf ratio = %v, want %v", subRatio, want)
	}
	if !sub.Options().SublinearTF {
		t.Error("Options() should report sublinear tf")
	}
}

func TestFit_emptyVocabulary(t *testing.T) {
	tests := []struct {
		name string
		docs []string
	}{
		{"no documents", nil},
		{"only stop words", []string{"the and of", "is it a"}},
		{"only short tokens", []string{"a b c", "x y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.docs, DefaultOptions())
			if !errors.Is(err, ErrEmptyVocabulary) {
				t.Errorf("err = %v, want ErrEmptyVocabulary", err)
			}
		})
	}
}

func TestFit_documentWithoutTermsIsZeroRow(t *testing.T) {
	m, err := Fit([]string{"space opera", "the of and"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !m.Row(1).IsZero() {
		t.Errorf("row 1 = %+v, want all-zero", m.Row(1))
	}
}

func TestTransform(t *testing.T) {
	m, err := Fit([]string{"dream heist thriller", "romance drama"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	v := m.Transform("a heist thriller about dreams")
	if v.IsZero() {
		t.Fatal("expected overlap with vocabulary")
	}
	if _, ok := m.Column("dreams"); ok {
		t.Error("unseen terms must not enter the vocabulary")
	}
	if !m.Transform("completely unrelated words").IsZero() {
		t.Error("text without vocabulary terms should transform to zero")
	}
}

func TestSharedTermsAndTopTerms(t *testing.T) {
	m, err := Fit([]string{
		"dream reality heist sci-fi mind-bending thriller",
		"inverted time sci-fi mystery thriller mind-bending",
		"romance drama emotional love story tearjerker",
	}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	shared := m.SharedTerms(0, 1, -1)
	found := map[string]bool{}
	for _, tw := range shared {
		found[tw.Term] = true
		if tw.Weight <= 0 {
			t.Errorf("shared term %q has weight %v", tw.Term, tw.Weight)
		}
	}
	for _, want := range []string{"sci fi", "mind bending", "thriller"} {
		if !found[want] {
			t.Errorf("shared terms %v missing %q", shared, want)
		}
	}
	if got := m.SharedTerms(0, 2, 5); len(got) != 0 {
		t.Errorf("no overlap expected, got %v", got)
	}
	top := m.TopTerms(0, 3)
	if len(top) != 3 {
		t.Fatalf("TopTerms len = %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].Weight < top[i].Weight {
			t.Errorf("TopTerms not sorted: %v", top)
		}
	}
}
