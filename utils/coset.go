package utils

// Coset represents the point set {shift * generator^i : i in [0, size)},
// a multiplicative coset of a power-of-two order subgroup of Field. It
// backs both the FFT/IFFT evaluation used by the folding prover/verifier
// and the interpolation domains handed out to AVSS parties.
type Coset struct {
	size      int
	shift     Field
	generator Field
}

func log2(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}

// NewCoset builds the coset of the given power-of-two size with the given
// multiplicative shift.
func NewCoset(size int, shift Field) Coset {
	generator := RootOfUnity.Pow(1 << uint(LogOrder-log2(size)))
	return Coset{size: size, shift: shift, generator: generator}
}

// Pow returns the coset of size/e generated by raising both the shift and
// the generator to the e-th power; used to move from one FRI round's
// domain to the next (e=2, halving the domain each round) and to derive
// the AVSS folding-schedule rows (e a power of two dividing size).
func (c Coset) Pow(e int) Coset {
	return Coset{size: c.size / e, shift: c.shift.Pow(uint64(e)), generator: c.generator.Pow(uint64(e))}
}

// Size returns the number of points in the coset.
func (c Coset) Size() int {
	return c.size
}

// Shift returns the coset's multiplicative shift.
func (c Coset) Shift() Field {
	return c.shift
}

// ElementAt returns shift * generator^i.
func (c Coset) ElementAt(i int) Field {
	return c.shift.Mul(c.generator.Pow(uint64(i)))
}

// ElementInvAt returns the multiplicative inverse of ElementAt(i).
func (c Coset) ElementInvAt(i int) Field {
	return c.ElementAt(i).Inverse()
}

// AllElements enumerates every point of the coset in index order.
func (c Coset) AllElements() []Field {
	out := make([]Field, c.size)
	cur := c.shift
	for i := 0; i < c.size; i++ {
		out[i] = cur
		cur = cur.Mul(c.generator)
	}
	return out
}

// FFT evaluates the polynomial with the given coefficients (low-to-high,
// zero-padded to the coset's size) at every point of the coset.
func (c Coset) FFT(coefficients []Field) []Field {
	padded := make([]Field, c.size)
	copy(padded, coefficients)
	elements := c.AllElements()
	out := make([]Field, c.size)
	for i, x := range elements {
		res := Zero
		for j := len(padded) - 1; j >= 0; j-- {
			res = res.Mul(x).Add(padded[j])
		}
		out[i] = res
	}
	return out
}

// IFFT inverts FFT: given the evaluations of a degree < size polynomial at
// every coset point, recovers its coefficients.
func (c Coset) IFFT(evaluations []Field) []Field {
	n := c.size
	// Un-shift: d_j = coefficients[j] * shift^j satisfies
	// evaluations[i] = sum_j d_j * generator^(i*j), the standard DFT over
	// the subgroup generated by `generator`.
	d := make([]Field, n)
	invN := FromInt(uint64(n)).Inverse()
	genInv := c.generator.Inverse()
	for j := 0; j < n; j++ {
		acc := Zero
		for i := 0; i < n; i++ {
			acc = acc.Add(evaluations[i].Mul(genInv.Pow(uint64((i * j) % n))))
		}
		d[j] = acc.Mul(invN)
	}
	shiftInv := c.shift.Inverse()
	out := make([]Field, n)
	cur := One
	for j := 0; j < n; j++ {
		out[j] = d[j].Mul(cur)
		cur = cur.Mul(shiftInv)
	}
	return out
}
