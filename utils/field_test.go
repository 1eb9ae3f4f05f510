package utils

import "testing"

func TestFieldAddSubRoundTrip(t *testing.T) {
	a := FromInt(123456789)
	b := FromInt(987654321)
	if !a.Add(b).Sub(b).Equal(a) {
		t.Fatalf("(a+b)-b != a")
	}
}

func TestFieldMulInverse(t *testing.T) {
	a := FromInt(42)
	inv := a.Inverse()
	if !a.Mul(inv).Equal(One) {
		t.Fatalf("a * a^-1 != 1, got %v", a.Mul(inv))
	}
}

func TestFieldNegZero(t *testing.T) {
	if !Zero.Neg().Equal(Zero) {
		t.Fatalf("-0 != 0")
	}
}

func TestFieldPow(t *testing.T) {
	a := FromInt(3)
	if !a.Pow(4).Equal(FromInt(81)) {
		t.Fatalf("3^4 != 81, got %v", a.Pow(4))
	}
}

func TestRootOfUnityOrder(t *testing.T) {
	one := RootOfUnity.Pow(1 << LogOrder)
	if !one.Equal(One) {
		t.Fatalf("root of unity does not have order 2^LogOrder")
	}
}

func TestBytesDistinguishImaginaryPart(t *testing.T) {
	a := Field{Real: 7, Imag: 1}
	b := Field{Real: 7, Imag: 2}
	if string(a.Bytes()) == string(b.Bytes()) {
		t.Fatalf("distinct field elements encoded identically")
	}
}
