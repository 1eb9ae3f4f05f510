package utils

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// Modulus is the Mersenne prime 2^61 - 1 underlying the quadratic extension
// field used by the AVSS folding scheme.
const Modulus uint64 = (1 << 61) - 1

// LogOrder is the 2-adicity of the multiplicative group of Field: the group
// order p^2 - 1 is divisible by 2^LogOrder, so a root of unity of any order
// up to 2^LogOrder can be derived from RootOfUnity by exponentiation.
const LogOrder = 62

// Field is an element of the quadratic extension GF(p^2), p = Modulus,
// represented as Real + Imag*i.
type Field struct {
	Real uint64
	Imag uint64
}

// Zero is the additive identity.
var Zero = Field{}

// One is the multiplicative identity.
var One = Field{Real: 1}

// RootOfUnity generates the unique subgroup of order 2^LogOrder.
var RootOfUnity = Field{Real: 2147483648, Imag: 1033321771269002680}

// Inverse2 is the multiplicative inverse of 2, used by the folding rule.
var Inverse2 = Field{Real: 1152921504606846976}

func reduce(x uint64) uint64 {
	x = (x >> 61) + (x & Modulus)
	if x >= Modulus {
		x -= Modulus
	}
	return x
}

// FromInt embeds an integer as a real-only field element.
func FromInt(x uint64) Field {
	return Field{Real: x % Modulus}
}

// RandomElement draws a uniformly random field element.
func RandomElement() Field {
	return Field{Real: randUint64Mod(Modulus), Imag: randUint64Mod(Modulus)}
}

func randUint64Mod(m uint64) uint64 {
	n, err := rand.Int(rand.Reader, new(big.Int).SetUint64(m))
	if err != nil {
		panic(err)
	}
	return n.Uint64()
}

// Add returns a + b.
func (a Field) Add(b Field) Field {
	return Field{Real: reduce(a.Real + b.Real), Imag: reduce(a.Imag + b.Imag)}
}

// Sub returns a - b.
func (a Field) Sub(b Field) Field {
	return a.Add(b.Neg())
}

// Neg returns -a.
func (a Field) Neg() Field {
	real, imag := uint64(0), uint64(0)
	if a.Real != 0 {
		real = Modulus - a.Real
	}
	if a.Imag != 0 {
		imag = Modulus - a.Imag
	}
	return Field{Real: real, Imag: imag}
}

func mulMod(x, y uint64) uint64 {
	// x, y < Modulus < 2^61, so the 128-bit product fits comfortably; reduce
	// using the Mersenne identity twice to fully collapse the high bits.
	hi, lo := mul64(x, y)
	v := (hi << 3) | (lo >> 61)
	v += lo & Modulus
	return reduce(v)
}

func mul64(x, y uint64) (hi, lo uint64) {
	const mask32 = (1 << 32) - 1
	x0, x1 := x&mask32, x>>32
	y0, y1 := y&mask32, y>>32
	t := x0 * y0
	w0 := t & mask32
	k := t >> 32
	t = x1*y0 + k
	w1 := t & mask32
	w2 := t >> 32
	t = x0*y1 + w1
	k = t >> 32
	lo = (t << 32) | w0
	hi = x1*y1 + w2 + k
	return
}

// Mul returns a * b using the standard Fp2 complex-multiplication formula
// with i^2 = -1.
func (a Field) Mul(b Field) Field {
	ac := mulMod(a.Real, b.Real)
	bd := mulMod(a.Imag, b.Imag)
	adPlusBc := reduce(mulMod(a.Real, b.Imag) + mulMod(a.Imag, b.Real))
	real := reduce(ac + (Modulus - bd))
	return Field{Real: real, Imag: adPlusBc}
}

// Pow raises a to the e-th power.
func (a Field) Pow(e uint64) Field {
	result := One
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Inverse returns the multiplicative inverse of a via Fermat's little
// theorem over GF(p^2): a^(p^2 - 2) == a^-1.
func (a Field) Inverse() Field {
	p := new(big.Int).SetUint64(Modulus)
	order := new(big.Int).Mul(p, p)
	order.Sub(order, big.NewInt(2))

	result := One
	base := a
	for i := 0; i < order.BitLen(); i++ {
		if order.Bit(i) == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}

// IsZero reports whether a is the additive identity.
func (a Field) IsZero() bool {
	return a.Real == 0 && a.Imag == 0
}

// Equal reports whether a and b represent the same element.
func (a Field) Equal(b Field) bool {
	return a.Real == b.Real && a.Imag == b.Imag
}

// Bytes returns the canonical little-endian encoding of a (16 bytes).
func (a Field) Bytes() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], a.Real)
	binary.LittleEndian.PutUint64(buf[8:16], a.Imag)
	return buf
}

// String renders a for logging and wire-level decimal encoding of the real
// part, matching the reference's `get_real().to_string()` convention.
func (a Field) String() string {
	return new(big.Int).SetUint64(a.Real).String()
}
