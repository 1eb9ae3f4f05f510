package utils

// Polynomial is a univariate polynomial over Field stored low-degree-first,
// with trailing zero coefficients trimmed.
type Polynomial struct {
	coefficients []Field
}

// NewPolynomial trims trailing zero coefficients and wraps the result.
func NewPolynomial(coefficients []Field) Polynomial {
	c := append([]Field(nil), coefficients...)
	for len(c) > 1 && c[len(c)-1].IsZero() {
		c = c[:len(c)-1]
	}
	if len(c) == 0 {
		c = []Field{Zero}
	}
	return Polynomial{coefficients: c}
}

// Coefficients returns the polynomial's coefficients, low-degree-first.
func (p Polynomial) Coefficients() []Field {
	return p.coefficients
}

// Degree returns the polynomial's degree.
func (p Polynomial) Degree() int {
	if len(p.coefficients) == 0 {
		return 0
	}
	return len(p.coefficients) - 1
}

// EvaluateAt evaluates the polynomial at x via Horner's method.
func (p Polynomial) EvaluateAt(x Field) Field {
	res := Zero
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		res = res.Mul(x).Add(p.coefficients[i])
	}
	return res
}

// VanishingPolynomial is x^degree - shift^degree, the polynomial vanishing
// on the coset it was built from.
type VanishingPolynomial struct {
	degree int
	shift  Field
}

// NewVanishingPolynomial builds the vanishing polynomial of the given coset.
func NewVanishingPolynomial(c Coset) VanishingPolynomial {
	return VanishingPolynomial{degree: c.Size(), shift: c.Shift().Pow(uint64(c.Size()))}
}

// EvaluateAt evaluates the vanishing polynomial at x.
func (v VanishingPolynomial) EvaluateAt(x Field) Field {
	return x.Pow(uint64(v.degree)).Sub(v.shift)
}

// MultilinearPolynomial is a polynomial over {0,1}^k represented by its
// 2^k evaluations/coefficients in the standard multilinear basis, folded
// one variable at a time by the FRI prover and verifier.
type MultilinearPolynomial struct {
	coefficients []Field
}

// NewMultilinearPolynomial wraps a power-of-two length coefficient vector.
func NewMultilinearPolynomial(coefficients []Field) MultilinearPolynomial {
	n := len(coefficients)
	if n&(n-1) != 0 {
		panic("multilinear polynomial length must be a power of two")
	}
	return MultilinearPolynomial{coefficients: append([]Field(nil), coefficients...)}
}

// RandomMultilinearPolynomial samples a uniformly random polynomial over
// 2^variableNum evaluation points.
func RandomMultilinearPolynomial(variableNum int) MultilinearPolynomial {
	coeffs := make([]Field, 1<<uint(variableNum))
	for i := range coeffs {
		coeffs[i] = RandomElement()
	}
	return MultilinearPolynomial{coefficients: coeffs}
}

// Coefficients returns the polynomial's coefficient vector.
func (m MultilinearPolynomial) Coefficients() []Field {
	return m.coefficients
}

// VariableNum returns log2 of the coefficient count.
func (m MultilinearPolynomial) VariableNum() int {
	return log2(len(m.coefficients))
}

// Folding combines consecutive coefficient pairs with the fold parameter,
// halving the variable count: res[i] = c[2i] + parameter*c[2i+1].
func (m MultilinearPolynomial) Folding(parameter Field) MultilinearPolynomial {
	v := m.coefficients
	res := make([]Field, 0, len(v)/2)
	for i := 0; i < len(v); i += 2 {
		res = append(res, v[i].Add(parameter.Mul(v[i+1])))
	}
	return MultilinearPolynomial{coefficients: res}
}

// Evaluate computes the multilinear extension's value at the given point,
// one coordinate per variable.
func (m MultilinearPolynomial) Evaluate(point []Field) Field {
	n := len(m.coefficients)
	if 1<<uint(len(point)) != n {
		panic("point length does not match multilinear polynomial variable count")
	}
	res := append([]Field(nil), m.coefficients...)
	for index, coeff := range point {
		step := 2 << uint(index)
		half := 1 << uint(index)
		for i := 0; i < n; i += step {
			res[i] = res[i].Add(coeff.Mul(res[i+half]))
		}
	}
	return res[0]
}

// EvaluateAsPolynomial treats the coefficient vector as a univariate
// polynomial (low-degree-first) and evaluates it at point via Horner.
func (m MultilinearPolynomial) EvaluateAsPolynomial(point Field) Field {
	res := Zero
	for i := len(m.coefficients) - 1; i >= 0; i-- {
		res = res.Mul(point).Add(m.coefficients[i])
	}
	return res
}

// InterpolateMultilinear recovers the final-round residual polynomial from
// the per-party evaluation rows and the chain of interpolation cosets: it
// takes successive differences across the rows, then inverse-FFTs the
// result over the first coset and truncates to the coset's own size.
func InterpolateMultilinear(evaluations [][]Field, interpolateCoset []Coset) MultilinearPolynomial {
	res := append([]Field(nil), evaluations[0]...)
	for i := 1; i < len(evaluations); i++ {
		tmp := make([]Field, len(res))
		for j := range res {
			tmp[j] = res[j].Sub(evaluations[i][j])
		}
		res = tmp
	}
	coeffs := interpolateCoset[0].IFFT(res)
	coeffs = coeffs[:1<<uint(log2(interpolateCoset[0].Size()))]
	return NewMultilinearPolynomial(coeffs)
}

// SplitPowersOfTwo decomposes n into the powers of two appearing in its
// binary representation, then sorts that multiset by descending
// trailing-zero count (largest power first). It drives the AVSS
// folding-parameter schedule, where each summand selects one row of a
// coset power chain.
func SplitPowersOfTwo(n int) []int {
	var out []int
	for b := 1; b <= n; b <<= 1 {
		if n&b != 0 {
			out = append(out, b)
		}
	}
	sortDescByTrailingZeros(out)
	return out
}

func sortDescByTrailingZeros(v []int) {
	trailingZeros := func(x int) int {
		z := 0
		for x&1 == 0 && x != 0 {
			x >>= 1
			z++
		}
		return z
	}
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && trailingZeros(v[j-1]) < trailingZeros(v[j]); j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}
