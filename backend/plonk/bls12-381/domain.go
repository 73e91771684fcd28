package bls12381

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// bls12381Generator is BLS12-381 Fr's canonical multiplicative generator
// (widely cited, e.g. in the KZG ceremony specs this curve is used for, as
// "the FFT generator of F_r is 7"). maxDomainLog2 is Fr's 2-adicity: r-1 =
// 2^32 * odd, so every subgroup of order a power of two up to 2^32 exists.
//
// Unlike bn254's domain.go (which hardcodes a precomputed root of unity),
// the 2^32-th root here is derived at init time as generator^((r-1)/2^32)
// rather than a copied magic constant, since no vendored gnark-crypto
// source is available locally to cross-check a hardcoded value against.
const maxDomainLog2 = 32

var bls12381RootOfUnity = func() fr.Element {
	var g fr.Element
	g.SetUint64(7)

	exp := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	pow := new(big.Int).Lsh(big.NewInt(1), maxDomainLog2)
	exp.Div(exp, pow)

	var root fr.Element
	root.Exp(g, exp)
	return root
}()

// Domain describes the size-n multiplicative subgroup used for the
// circuit's constraint rows plus the size-4n coset used for quotient
// evaluation (spec §4.2).
type Domain struct {
	N            uint64
	K            uint32 // log2(N)
	Omega        Scalar // primitive N-th root of unity
	OmegaInv     Scalar
	CardinalityI Scalar // N^{-1}
	CosetShift   Scalar // coset generator g for the size-4n coset

	roots    []Scalar // roots[i] = Omega^i, i in [0, N)
	rootsInv []Scalar

	domain4n *Domain4N
}

// Domain4N is the size-4n subgroup used for coset evaluation.
type Domain4N struct {
	N4        uint64
	Omega4    Scalar
	Omega4Inv Scalar
	roots4    []Scalar
}

// NewDomain builds the Domain for a circuit with n = 2^k constraint rows.
func NewDomain(n uint64) (*Domain, error) {
	k := bits.TrailingZeros64(n)
	if n == 0 || uint64(1)<<uint(k) != n {
		return nil, newErr(InvalidProvingKey, fmt.Sprintf("domain size %d is not a power of two", n), nil)
	}
	if k > maxDomainLog2 {
		return nil, newErr(InvalidProvingKey, fmt.Sprintf("domain size 2^%d exceeds maximum 2^%d", k, maxDomainLog2), nil)
	}

	omega := rootOfOrder(uint64(k))
	var omegaInv Scalar
	omegaInv.Inverse(&omega)

	var cardInv Scalar
	cardInv.SetUint64(n)
	cardInv.Inverse(&cardInv)

	d := &Domain{
		N:            n,
		K:            uint32(k),
		Omega:        omega,
		OmegaInv:     omegaInv,
		CardinalityI: cardInv,
		CosetShift:   coosetGenerator(),
	}
	d.roots = powers(omega, n)
	d.rootsInv = powers(omegaInv, n)

	n4 := 4 * n
	k4 := bits.TrailingZeros64(n4)
	if uint64(1)<<uint(k4) != n4 {
		return nil, newErr(InvalidProvingKey, "4n is not a power of two", nil)
	}
	omega4 := rootOfOrder(uint64(k4))
	var omega4Inv Scalar
	omega4Inv.Inverse(&omega4)
	d.domain4n = &Domain4N{
		N4:        n4,
		Omega4:    omega4,
		Omega4Inv: omega4Inv,
		roots4:    powers(omega4, n4),
	}

	return d, nil
}

func coosetGenerator() Scalar {
	var g Scalar
	g.SetUint64(5) // smallest quadratic/cubic non-residue conventionally used by gnark-crypto curves
	return g
}

// rootOfOrder returns a primitive 2^k-th root of unity by squaring the
// fixed 2^maxDomainLog2-th root maxDomainLog2-k times.
func rootOfOrder(k uint64) Scalar {
	root := bls12381RootOfUnity
	for i := uint64(maxDomainLog2); i > k; i-- {
		root.Square(&root)
	}
	return root
}

func powers(base Scalar, n uint64) []Scalar {
	out := make([]Scalar, n)
	out[0].SetOne()
	for i := uint64(1); i < n; i++ {
		out[i].Mul(&out[i-1], &base)
	}
	return out
}

// RootsOfUnity returns omega^i for i in [0, N).
func (d *Domain) RootsOfUnity() []Scalar { return d.roots }

// cloneAndNTT copies coeffs and runs the forward size-N transform on the
// copy, leaving the input untouched.
func cloneAndNTT(d *Domain, coeffs []Scalar) []Scalar {
	out := make([]Scalar, len(coeffs))
	copy(out, coeffs)
	d.NTT(out)
	return out
}

// cosetPoint returns the i-th point of the size-4n coset, CosetShift *
// Omega4^i.
func cosetPoint(d *Domain, i int) Scalar {
	var z Scalar
	z.Mul(&d.CosetShift, &d.domain4n.roots4[i])
	return z
}

// l1CosetEvals evaluates the Lagrange basis polynomial L_1 (L_1(1) = 1,
// zero on every other N-th root of unity) at each of the 4n coset points,
// using the closed form L_1(X) = (X^N - 1) / (N (X - 1)) (the same
// identity spec §4.7 round 5 uses for L_1(zeta)). zeta_i^N cycles with
// period 4 since (Omega4^N)^4 = Omega4^{4N} = 1, so it is computed once
// per residue class rather than by N-th powering each point.
func l1CosetEvals(d *Domain) []Scalar {
	n4 := d.domain4n.N4
	n := d.N

	var shiftN Scalar
	shiftN.Exp(d.CosetShift, new(big.Int).SetUint64(n))

	var omega4ToN Scalar
	omega4ToN.Exp(d.domain4n.Omega4, new(big.Int).SetUint64(n))

	var cycle [4]Scalar
	cycle[0].SetOne()
	for i := 1; i < 4; i++ {
		cycle[i].Mul(&cycle[i-1], &omega4ToN)
	}

	var nInv Scalar
	nInv.SetUint64(n)
	nInv.Inverse(&nInv)

	var one Scalar
	one.SetOne()

	out := make([]Scalar, n4)
	for i := uint64(0); i < n4; i++ {
		zetaI := cosetPoint(d, int(i))

		var zetaIN Scalar
		zetaIN.Mul(&shiftN, &cycle[i%4])

		var num, den, denInv, li Scalar
		num.Sub(&zetaIN, &one)
		den.Sub(&zetaI, &one)
		denInv.Inverse(&den)
		li.Mul(&num, &denInv)
		li.Mul(&li, &nInv)
		out[i] = li
	}
	return out
}

// bitReverse permutes a in place by bit-reversed index, the standard
// preconditioning step for an iterative radix-2 NTT.
func bitReverse(a []Scalar) {
	n := len(a)
	logN := bits.Len(uint(n)) - 1
	for i := 0; i < n; i++ {
		j := bits.Reverse(uint(i)) >> (bits.UintSize - logN)
		if i < int(j) {
			a[i], a[j] = a[j], a[i]
		}
	}
}

// ntt runs an in-place iterative Cooley-Tukey NTT of a (len(a) a power of
// two) using the given primitive len(a)-th root of unity.
func ntt(a []Scalar, root Scalar) {
	n := len(a)
	bitReverse(a)

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		// root for this butterfly stage: (n-th root)^(n/size)
		var stageExp big.Int
		stageExp.SetUint64(uint64(n / size))
		var w Scalar
		w.Exp(root, &stageExp)

		for start := 0; start < n; start += size {
			var wPow Scalar
			wPow.SetOne()
			for j := 0; j < half; j++ {
				var t Scalar
				t.Mul(&wPow, &a[start+j+half])
				var u Scalar
				u.Set(&a[start+j])
				a[start+j].Add(&u, &t)
				a[start+j+half].Sub(&u, &t)
				wPow.Mul(&wPow, &w)
			}
		}
	}
}

// NTT is the forward transform: coefficient form -> evaluation form over
// the size-N subgroup.
func (d *Domain) NTT(a []Scalar) {
	ntt(a, d.Omega)
}

// INTT is the inverse transform: evaluation form -> coefficient form.
func (d *Domain) INTT(a []Scalar) {
	ntt(a, d.OmegaInv)
	for i := range a {
		a[i].Mul(&a[i], &d.CardinalityI)
	}
}

// CosetNTT4N zero-extends poly to size 4n, twists coefficient i by
// CosetShift^i, and runs the size-4n NTT, producing the coset evaluation
// buffer quotient computation needs (spec §4.2).
func (d *Domain) CosetNTT4N(poly []Scalar) []Scalar {
	n4 := d.domain4n.N4
	out := make([]Scalar, n4)
	copy(out, poly)

	var shiftPow Scalar
	shiftPow.SetOne()
	for i := range out {
		out[i].Mul(&out[i], &shiftPow)
		shiftPow.Mul(&shiftPow, &d.CosetShift)
	}

	ntt(out, d.domain4n.Omega4)
	return out
}

// ICosetNTT4N is the inverse of CosetNTT4N: size-4n iNTT followed by
// untwisting by CosetShift^{-i}. Used to recover quotient coefficients
// from the coset evaluation buffer after the gate/permutation/boundary
// identities have been combined pointwise.
func (d *Domain) ICosetNTT4N(evals []Scalar) []Scalar {
	n4 := d.domain4n.N4
	out := make([]Scalar, n4)
	copy(out, evals)

	ntt(out, d.domain4n.Omega4Inv)
	var n4Inv Scalar
	n4Inv.SetUint64(n4)
	n4Inv.Inverse(&n4Inv)

	var shiftInv Scalar
	shiftInv.Inverse(&d.CosetShift)
	var shiftPow Scalar
	shiftPow.SetOne()
	for i := range out {
		out[i].Mul(&out[i], &n4Inv)
		out[i].Mul(&out[i], &shiftPow)
		shiftPow.Mul(&shiftPow, &shiftInv)
	}
	return out
}
