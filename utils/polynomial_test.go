package utils

import (
	"reflect"
	"testing"
)

func TestSplitPowersOfTwoSeven(t *testing.T) {
	got := SplitPowersOfTwo(7)
	want := []int{4, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("split_n(7) = %v, want %v", got, want)
	}
}

func TestSplitPowersOfTwoEleven(t *testing.T) {
	got := SplitPowersOfTwo(11)
	want := []int{8, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("split_n(11) = %v, want %v", got, want)
	}
}

func TestSplitPowersOfTwoSumsToN(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 6, 9, 13, 31, 100} {
		parts := SplitPowersOfTwo(n)
		sum := 0
		for _, p := range parts {
			if p&(p-1) != 0 {
				t.Fatalf("split_n(%d) produced non-power-of-two %d", n, p)
			}
			sum += p
		}
		if sum != n {
			t.Fatalf("split_n(%d) = %v sums to %d, want %d", n, parts, sum, n)
		}
	}
}

func TestMultilinearEvaluateWorkedExample(t *testing.T) {
	p := NewMultilinearPolynomial([]Field{FromInt(1), FromInt(2), FromInt(3), FromInt(4)})
	got := p.Evaluate([]Field{FromInt(5), FromInt(6)})
	want := FromInt(149) // 1 + 2*5 + 3*6 + 4*30
	if !got.Equal(want) {
		t.Fatalf("evaluate([1,2,3,4],[5,6]) = %v, want %v", got, want)
	}
}

func TestMultilinearFoldLaw(t *testing.T) {
	p := RandomMultilinearPolynomial(3)
	r := RandomElement()
	folded := p.Folding(r)

	rest := make([]Field, 2)
	for i := range rest {
		rest[i] = RandomElement()
	}

	full := append([]Field{r}, rest...)
	lhs := p.Evaluate(full)
	rhs := folded.Evaluate(rest)

	if !lhs.Equal(rhs) {
		t.Fatalf("p(r, x...) != p.folding(r).evaluate(x...): %v != %v", lhs, rhs)
	}
}
