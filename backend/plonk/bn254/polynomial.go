package bn254

import (
	"math/big"

	"golang.org/x/exp/slices"
)

// Polynomial is a coefficient-form dense univariate polynomial over F_r
// (spec §4.3). It exclusively owns its coefficient buffer.
type Polynomial struct {
	c []Scalar
}

// NewPolynomial wraps an existing coefficient buffer (ownership transfers
// to the returned Polynomial).
func NewPolynomial(c []Scalar) *Polynomial {
	return &Polynomial{c: c}
}

// FromEvaluations is Polynomial.from_evaluations: c <- iNTT(evals).
func FromEvaluations(d *Domain, evals []Scalar) *Polynomial {
	c := slices.Clone(evals)
	d.INTT(c)
	return &Polynomial{c: c}
}

// FromEvaluations4N is from_evaluations over the size-4n coset: c <-
// ICosetNTT4N(evals). Used to recover the quotient polynomial's
// coefficients from the combined gate/permutation/boundary identity
// evaluated pointwise over the coset (spec §4.7 round 3).
func FromEvaluations4N(d *Domain, evals []Scalar) *Polynomial {
	return &Polynomial{c: d.ICosetNTT4N(evals)}
}

// zeroPoly returns a zero polynomial with a buffer of the given length,
// used as an accumulator sized to fit every addend in a linear
// combination (Add/Sub require other.length <= self.length).
func zeroPoly(length int) *Polynomial {
	return &Polynomial{c: make([]Scalar, length)}
}

// combinedLen returns a zero polynomial sized to the longest of the given
// polynomials, so every one of them can subsequently be folded in with Add.
func combinedLen(polys ...*Polynomial) *Polynomial {
	max := 0
	for _, pl := range polys {
		if pl.Len() > max {
			max = pl.Len()
		}
	}
	return zeroPoly(max)
}

// Coefficients exposes the raw buffer (read path only; callers must not
// mutate it through this slice once it has been committed).
func (p *Polynomial) Coefficients() []Scalar { return p.c }

// Len returns the coefficient buffer's length L.
func (p *Polynomial) Len() int { return len(p.c) }

// Clone returns a polynomial with its own copy of the coefficient buffer.
func (p *Polynomial) Clone() *Polynomial {
	return &Polynomial{c: slices.Clone(p.c)}
}

// Degree returns the index of the highest non-zero coefficient, or 0 if
// the polynomial is identically zero.
func (p *Polynomial) Degree() int {
	for i := len(p.c) - 1; i >= 0; i-- {
		if !p.c[i].IsZero() {
			return i
		}
	}
	return 0
}

// Truncate shrinks the buffer to Degree()+1 coefficients.
func (p *Polynomial) Truncate() {
	p.c = p.c[:p.Degree()+1]
}

// Evaluate computes p(zeta) by Horner's method, high to low degree.
func (p *Polynomial) Evaluate(zeta Scalar) Scalar {
	var acc Scalar
	for i := len(p.c) - 1; i >= 0; i-- {
		acc.Mul(&acc, &zeta)
		acc.Add(&acc, &p.c[i])
	}
	return acc
}

// Add is self += scale*other (scale defaults to 1 when nil). other must
// be no longer than self.
func (p *Polynomial) Add(other *Polynomial, scale *Scalar) {
	if len(other.c) > len(p.c) {
		panic("polynomial: Add requires other.length <= self.length")
	}
	for i, oc := range other.c {
		v := oc
		if scale != nil {
			v.Mul(&v, scale)
		}
		p.c[i].Add(&p.c[i], &v)
	}
}

// Sub is self -= scale*other (scale defaults to 1 when nil). Same length
// rule as Add.
func (p *Polynomial) Sub(other *Polynomial, scale *Scalar) {
	if len(other.c) > len(p.c) {
		panic("polynomial: Sub requires other.length <= self.length")
	}
	for i, oc := range other.c {
		v := oc
		if scale != nil {
			v.Mul(&v, scale)
		}
		p.c[i].Sub(&p.c[i], &v)
	}
}

// MulScalar multiplies every coefficient by s.
func (p *Polynomial) MulScalar(s Scalar) {
	for i := range p.c {
		p.c[i].Mul(&p.c[i], &s)
	}
}

// AddScalar adds s to the constant term.
func (p *Polynomial) AddScalar(s Scalar) {
	p.c[0].Add(&p.c[0], &s)
}

// SubScalar subtracts s from the constant term.
func (p *Polynomial) SubScalar(s Scalar) {
	p.c[0].Sub(&p.c[0], &s)
}

// Blind realises p(X) + (sum_i factors[i] X^i) * Z_H(X) when len(p.c) ==
// n: it extends the buffer by len(factors) and, for each i, adds
// factors[i] at position L+i and subtracts it at position i (spec §4.3).
func (p *Polynomial) Blind(factors []Scalar) {
	oldLen := len(p.c)
	p.c = append(p.c, make([]Scalar, len(factors))...)
	for i, f := range factors {
		p.c[oldLen+i].Add(&p.c[oldLen+i], &f)
		p.c[i].Sub(&p.c[i], &f)
	}
}

// DivByXMinus performs synthetic division of p by (X - zeta): output
// length equals L with the top coefficient forced to zero.
//
//	q[L-2] = c[L-1]
//	q[i]   = c[i+1] + zeta*q[i+1]   for i = L-3 downto 0
//
// debugCheck, when true, verifies the remainder c[0] == -zeta*q[0] is
// zero and returns DivisibilityViolation otherwise (spec §9: the
// assertion is available behind a debug flag, not gated in production).
func (p *Polynomial) DivByXMinus(zeta Scalar, debugCheck bool) (*Polynomial, error) {
	l := len(p.c)
	q := make([]Scalar, l)
	if l >= 2 {
		q[l-2] = p.c[l-1]
		for i := l - 3; i >= 0; i-- {
			var t Scalar
			t.Mul(&zeta, &q[i+1])
			q[i].Add(&p.c[i+1], &t)
		}
	}
	if debugCheck && l > 0 {
		var rem Scalar
		rem.Mul(&zeta, &q[0])
		rem.Neg(&rem)
		if !rem.Equal(&p.c[0]) {
			return nil, newErr(DivisibilityViolation, "div_by_x_minus: non-zero remainder", nil)
		}
	}
	return &Polynomial{c: q}, nil
}

// DivByZH divides a length-4n polynomial known to vanish on Z_H = X^n-1
// by Z_H: q[i] = -c[i] for i<n, else q[i] = q[i-n] - c[i] (spec §4.3).
// Output length is 4n.
func (p *Polynomial) DivByZH(n uint64) *Polynomial {
	l := uint64(len(p.c))
	q := make([]Scalar, l)
	for i := uint64(0); i < l; i++ {
		if i < n {
			q[i].Neg(&p.c[i])
		} else {
			q[i].Sub(&q[i-n], &p.c[i])
		}
	}
	return &Polynomial{c: q}
}

// Split partitions the coefficients into numParts chunks of deg+1
// coefficients each (the last chunk takes the remainder). For every
// non-last chunk j, blinding[j] is appended at position deg+1; for every
// non-first chunk j, blinding[j-1] is subtracted from coefficient 0
// (spec §4.3). The chunks, summed with the X^{j(deg+1)} offsets, equal
// the original polynomial.
func (p *Polynomial) Split(numParts int, deg int, blinding []Scalar) []*Polynomial {
	chunkLen := deg + 1
	parts := make([]*Polynomial, numParts)
	for j := 0; j < numParts; j++ {
		start := j * chunkLen
		end := start + chunkLen
		if end > len(p.c) {
			end = len(p.c)
		}

		bufLen := chunkLen
		if j == numParts-1 {
			bufLen = end - start // last chunk takes only the remainder, no blind slot
		} else {
			bufLen = chunkLen + 1 // room for the appended blinding coefficient
		}
		c := make([]Scalar, bufLen)
		if start < end {
			copy(c, p.c[start:end])
		}
		parts[j] = &Polynomial{c: c}
	}

	for j := 0; j < numParts-1; j++ {
		parts[j].c[chunkLen] = blinding[j]
	}
	for j := 1; j < numParts; j++ {
		parts[j].c[0].Sub(&parts[j].c[0], &blinding[j-1])
	}
	return parts
}

// scalarFromInt is a small helper for tests and the linearisation code
// that need a Scalar from a plain int64.
func scalarFromInt(v int64) Scalar {
	var s Scalar
	s.SetBigInt(big.NewInt(v))
	return s
}
