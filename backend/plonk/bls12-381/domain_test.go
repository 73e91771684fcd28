package bls12381

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDomainSizes exercises NewDomain's power-of-two / max-log2 validation
// (spec §4.2 edge cases), mirroring the bn254 package's coverage.
func TestDomainSizes(t *testing.T) {
	if _, err := NewDomain(0); err == nil {
		t.Fatal("domain size 0 must be rejected")
	}
	if _, err := NewDomain(3); err == nil {
		t.Fatal("non-power-of-two domain size must be rejected")
	}
	if _, err := NewDomain(1 << 33); err == nil {
		t.Fatal("domain size exceeding 2^maxDomainLog2 must be rejected")
	}
	d, err := NewDomain(8)
	if err != nil {
		t.Fatalf("NewDomain(8): %v", err)
	}
	if d.N != 8 || d.K != 3 {
		t.Fatalf("unexpected domain shape: N=%d K=%d", d.N, d.K)
	}
}

// TestRootOfUnityHasFullOrder checks the BLS12-381-specific, generator-7
// derived root of unity (domain.go's asymmetry from bn254's hardcoded
// constant): omega^n == 1 but omega^(n/2) != 1 for the circuit-sized
// subgroup.
func TestRootOfUnityHasFullOrder(t *testing.T) {
	const n = 32
	d, err := NewDomain(n)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	var acc Scalar
	acc.SetOne()
	for i := 0; i < n; i++ {
		acc.Mul(&acc, &d.Omega)
	}
	var one Scalar
	one.SetOne()
	if !acc.Equal(&one) {
		t.Fatal("omega^n must equal 1")
	}

	var half Scalar
	half.SetOne()
	for i := 0; i < n/2; i++ {
		half.Mul(&half, &d.Omega)
	}
	if half.Equal(&one) {
		t.Fatal("omega^(n/2) must not equal 1 (omega must have full order n)")
	}
}

// TestNTTRoundTrip is spec §8's NTT round-trip property: INTT(NTT(a)) == a.
func TestNTTRoundTrip(t *testing.T) {
	const n = 16
	d, err := NewDomain(n)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}

	properties := gopter.NewProperties(nil)
	properties.Property("INTT(NTT(a)) == a", prop.ForAll(
		func(vals []int64) bool {
			coeffs := make([]Scalar, n)
			for i, v := range vals {
				coeffs[i] = scalarFromInt(v)
			}
			work := make([]Scalar, n)
			copy(work, coeffs)

			d.NTT(work)
			d.INTT(work)

			for i := range coeffs {
				if !coeffs[i].Equal(&work[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(n, gen.Int64Range(-1<<20, 1<<20)),
	))
	properties.TestingRun(t)
}

// TestCosetNTTRoundTrip checks the size-4n coset transform's own inverse.
func TestCosetNTTRoundTrip(t *testing.T) {
	const n = 8
	d, err := NewDomain(n)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}

	properties := gopter.NewProperties(nil)
	properties.Property("ICosetNTT4N(CosetNTT4N(a)) == zero-extended a", prop.ForAll(
		func(vals []int64) bool {
			coeffs := make([]Scalar, n)
			for i, v := range vals {
				coeffs[i] = scalarFromInt(v)
			}
			evals := d.CosetNTT4N(coeffs)
			back := d.ICosetNTT4N(evals)

			for i, c := range coeffs {
				if !c.Equal(&back[i]) {
					return false
				}
			}
			for i := n; i < len(back); i++ {
				if !back[i].IsZero() {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(n, gen.Int64Range(-1<<20, 1<<20)),
	))
	properties.TestingRun(t)
}

// TestL1CosetEvalsMatchesDefinition cross-checks l1CosetEvals's closed
// form against a direct NTT-based Lagrange-basis evaluation.
func TestL1CosetEvalsMatchesDefinition(t *testing.T) {
	const n = 8
	d, err := NewDomain(n)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}

	l1Evals := make([]Scalar, n)
	l1Evals[0].SetOne()
	l1Poly := FromEvaluations(d, l1Evals)

	got := l1CosetEvals(d)
	for i := 0; i < len(got); i++ {
		want := l1Poly.Evaluate(cosetPoint(d, i))
		if !want.Equal(&got[i]) {
			t.Fatalf("l1CosetEvals[%d]: got %v want %v", i, got[i], want)
		}
	}
}
