package bn254

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func scalarSlice(vals []int64) []Scalar {
	out := make([]Scalar, len(vals))
	for i, v := range vals {
		out[i] = scalarFromInt(v)
	}
	return out
}

// TestEvaluateHorner checks Evaluate against the textbook sum_i c_i * x^i.
func TestEvaluateHorner(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("Evaluate matches the naive power-sum", prop.ForAll(
		func(coeffVals []int64, xVal int64) bool {
			coeffs := scalarSlice(coeffVals)
			p := NewPolynomial(coeffs)
			x := scalarFromInt(xVal)

			var want, xPow Scalar
			xPow.SetOne()
			for _, c := range coeffs {
				var term Scalar
				term.Mul(&c, &xPow)
				want.Add(&want, &term)
				xPow.Mul(&xPow, &x)
			}

			got := p.Evaluate(x)
			return got.Equal(&want)
		},
		gen.SliceOfN(6, gen.Int64Range(-1000, 1000)),
		gen.Int64Range(-1000, 1000),
	))
	properties.TestingRun(t)
}

// TestBlindInvariantOnSubgroup is spec §8's blinding-invariance property:
// Blind adds a multiple of Z_H(X), so it must not change p's evaluation at
// any n-th root of unity.
func TestBlindInvariantOnSubgroup(t *testing.T) {
	const n = 8
	d, err := NewDomain(n)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}

	properties := gopter.NewProperties(nil)
	properties.Property("Blind leaves domain-point evaluations unchanged", prop.ForAll(
		func(evalVals []int64, blindVals []int64) bool {
			evals := scalarSlice(evalVals)
			p := FromEvaluations(d, evals)

			before := make([]Scalar, n)
			roots := d.RootsOfUnity()
			for i, r := range roots {
				before[i] = p.Evaluate(r)
			}

			p.Blind(scalarSlice(blindVals))

			for i, r := range roots {
				got := p.Evaluate(r)
				if !got.Equal(&before[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(n, gen.Int64Range(-1000, 1000)),
		gen.SliceOfN(3, gen.Int64Range(-1000, 1000)),
	))
	properties.TestingRun(t)
}

// TestSplitReconstructs is spec §8's split-reconstruction property: summing
// the parts back together (each shifted by X^{j*(deg+1)}, with zero
// blinding so there is nothing to cancel) must reproduce the original
// polynomial exactly.
func TestSplitReconstructs(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("Split with zero blinding reconstructs the original", prop.ForAll(
		func(coeffVals []int64) bool {
			coeffs := scalarSlice(coeffVals)
			p := NewPolynomial(append([]Scalar(nil), coeffs...))

			const numParts = 3
			const deg = 3 // chunkLen = 4, numParts*chunkLen == len(coeffs) == 12
			zeroBlind := make([]Scalar, numParts-1)
			parts := p.Split(numParts, deg, zeroBlind)

			recon := make([]Scalar, len(coeffs))
			chunkLen := deg + 1
			for j, part := range parts {
				for i, c := range part.Coefficients() {
					if i == chunkLen {
						continue // the (unused, zero) blind slot on non-last chunks
					}
					recon[j*chunkLen+i] = c
				}
			}

			for i := range coeffs {
				if !coeffs[i].Equal(&recon[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.Int64Range(-1000, 1000)),
	))
	properties.TestingRun(t)
}

// TestDivByXMinusExact constructs p = (X - zeta) * q for a random q, then
// checks DivByXMinus recovers q with a zero remainder under the debug
// check (spec §8 division-identity property).
func TestDivByXMinusExact(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("DivByXMinus(p, zeta) recovers q when p = (X-zeta)*q", prop.ForAll(
		func(qVals []int64, zetaVal int64) bool {
			q := scalarSlice(qVals)
			zeta := scalarFromInt(zetaVal)
			if zeta.IsZero() {
				zeta.SetOne()
			}

			// p[0] = -zeta*q[0]; p[i] = q[i-1] - zeta*q[i] for 0<i<len(q);
			// p[len(q)] = q[len(q)-1].
			p := make([]Scalar, len(q)+1)
			var t Scalar
			t.Mul(&zeta, &q[0])
			p[0].Neg(&t)
			for i := 1; i < len(q); i++ {
				t.Mul(&zeta, &q[i])
				p[i].Sub(&q[i-1], &t)
			}
			p[len(q)] = q[len(q)-1]

			poly := NewPolynomial(p)
			quot, err := poly.DivByXMinus(zeta, true)
			if err != nil {
				return false
			}
			got := quot.Coefficients()
			for i, c := range q {
				if !c.Equal(&got[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(7, gen.Int64Range(-1000, 1000)),
		gen.Int64Range(-1000, 1000),
	))
	properties.TestingRun(t)
}

// TestDivByZHExact constructs a length-4n polynomial known to vanish on
// every n-th root of unity (p = Z_H * q) and checks DivByZH recovers q.
func TestDivByZHExact(t *testing.T) {
	const n = 4
	properties := gopter.NewProperties(nil)
	properties.Property("DivByZH(Z_H*q) == q", prop.ForAll(
		func(qVals []int64) bool {
			q := scalarSlice(qVals) // length 3n, so Z_H*q has length 4n
			p := make([]Scalar, 4*n)
			for i, c := range q {
				// Z_H = X^n - 1, so (Z_H*q)[i] = q[i-n] - q[i]
				p[i+n].Add(&p[i+n], &c)
				var neg Scalar
				neg.Neg(&c)
				p[i].Add(&p[i], &neg)
			}
			poly := NewPolynomial(p)
			quot := poly.DivByZH(n)
			got := quot.Coefficients()
			for i, c := range q {
				if !c.Equal(&got[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3*n, gen.Int64Range(-1000, 1000)),
	))
	properties.TestingRun(t)
}

// TestBatchInverse checks FieldOps.batch_inverse's defining property:
// v[i] * BatchInverse(v)[i] == 1 for every non-zero v[i], and a zero
// element must surface ZeroInversion rather than panicking.
func TestBatchInverse(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("v[i] * inv[i] == 1", prop.ForAll(
		func(vals []int64) bool {
			v := make([]Scalar, len(vals))
			for i, val := range vals {
				s := scalarFromInt(val)
				if s.IsZero() {
					s.SetOne()
				}
				v[i] = s
			}
			inv, err := BatchInverse(v)
			if err != nil {
				return false
			}
			var one Scalar
			one.SetOne()
			for i := range v {
				var prod Scalar
				prod.Mul(&v[i], &inv[i])
				if !prod.Equal(&one) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.Int64Range(-1000, 1000)),
	))
	properties.TestingRun(t)
}

func TestBatchInverseRejectsZero(t *testing.T) {
	var zero Scalar
	_, err := BatchInverse([]Scalar{zero})
	if err == nil {
		t.Fatal("batch_inverse of a zero element must return an error")
	}
	perr, ok := err.(*ProverError)
	if !ok || perr.Kind != ZeroInversion {
		t.Fatalf("expected ZeroInversion, got %v", err)
	}
}
