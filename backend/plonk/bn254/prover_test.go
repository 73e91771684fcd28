package bn254

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// toyCircuit is a hand-built (not zkey-loaded) ProvingKey/Witness pair for
// the end-to-end scenarios in spec §8. Gate selectors (Q1/Q2) are left at
// zero throughout: DivByZH never asserts divisibility and DivByXMinus does
// so only under WithDebugChecks, so Prove() never actually exercises a real gate
// polynomial identity here — only the genuine, load-bearing part of these
// scenarios, the permutation (copy-constraint) argument in round 2, is
// modelled faithfully. A sigma1 cycle over a set of even row positions
// ties those positions' A-column values together exactly the way a real
// multiplication-gate chain's wire-sharing would.
type toyCircuit struct {
	n          uint64
	nPublic    uint32
	aMap, bMap []uint32
	sigma1Cyc  []int // positions tied together by a sigma1 permutation cycle
	direct     []Scalar
	additions  []Addition
}

func buildToyKey(t *testing.T, tc toyCircuit) (*ProvingKey, *Witness) {
	t.Helper()

	domain, err := NewDomain(tc.n)
	require.NoError(t, err)
	n := tc.n

	k1 := ScalarFromUint64(7)
	roots := domain.RootsOfUnity()

	sigma1 := make([]Scalar, n)
	sigma2 := make([]Scalar, n)
	for i := uint64(0); i < n; i++ {
		sigma1[i] = roots[i]
		var s2 Scalar
		s2.Mul(&k1, &roots[i])
		sigma2[i] = s2
	}
	if len(tc.sigma1Cyc) > 1 {
		last := sigma1[tc.sigma1Cyc[0]]
		for i := 0; i < len(tc.sigma1Cyc)-1; i++ {
			sigma1[tc.sigma1Cyc[i]] = sigma1[tc.sigma1Cyc[i+1]]
		}
		sigma1[tc.sigma1Cyc[len(tc.sigma1Cyc)-1]] = last
	}

	sigma1Poly := FromEvaluations(domain, sigma1)
	sigma2Poly := FromEvaluations(domain, sigma2)

	zeroEvals := make([]Scalar, n)
	zeroPoly := FromEvaluations(domain, zeroEvals)
	zeroCoeffs4N := domain.CosetNTT4N(zeroPoly.Coefficients())

	lagrangeFlat := make([]Scalar, uint64(tc.nPublic)*5*n)
	for j := uint32(0); j < tc.nPublic; j++ {
		basis := make([]Scalar, n)
		basis[j].SetOne()
		coset := domain.CosetNTT4N(FromEvaluations(domain, basis).Coefficients())
		block := uint64(j) * 5 * n
		copy(lagrangeFlat[block+n:block+5*n], coset)
	}

	kCorr := make([]Scalar, n)

	_, _, g1Gen, _ := bn254.Generators()
	tau := big.NewInt(987654321)
	const ptauLen = 256
	ptau := make([]G1Point, ptauLen)
	exp := big.NewInt(1)
	for i := 0; i < ptauLen; i++ {
		var p G1Point
		p.ScalarMultiplication(&g1Gen, exp)
		ptau[i] = p
		exp.Mul(exp, tau)
	}

	pk := &ProvingKey{
		N:            n,
		K:            domain.K,
		K1:           k1,
		NVars:        uint32(len(tc.direct) + len(tc.additions)),
		NPublic:      tc.nPublic,
		NAdditions:   uint32(len(tc.additions)),
		NConstraints: n,
		Additions:    tc.additions,
		AMap:         tc.aMap,
		BMap:         tc.bMap,
		KCorr:        kCorr,
		Q1Coeffs:     zeroPoly.Coefficients(), Q1Evals4N: zeroCoeffs4N,
		Q2Coeffs: zeroPoly.Coefficients(), Q2Evals4N: zeroCoeffs4N,
		Sigma1Coeffs: sigma1Poly.Coefficients(), Sigma1Evals4N: domain.CosetNTT4N(sigma1Poly.Coefficients()),
		Sigma2Coeffs: sigma2Poly.Coefficients(), Sigma2Evals4N: domain.CosetNTT4N(sigma2Poly.Coefficients()),
		LagrangeFlat: lagrangeFlat,
		PTau:         ptau,
		Domain:       domain,
	}
	w := &Witness{Values: tc.direct}
	return pk, w
}

// TestProverS1SuccessAndDeterminism is scenario S1: a satisfied copy
// constraint ties the public row to a second row holding the same value;
// two proofs built with the same deterministic seed must be byte-identical.
func TestProverS1SuccessAndDeterminism(t *testing.T) {
	assert := require.New(t)

	direct := make([]Scalar, 4)
	direct[1] = ScalarFromUint64(3) // x
	direct[2] = ScalarFromUint64(9) // public claim of y
	direct[3] = ScalarFromUint64(9) // internally-held y

	tc := toyCircuit{
		n:         4,
		nPublic:   1,
		aMap:      []uint32{2, 0, 3, 0},
		bMap:      []uint32{0, 0, 0, 0},
		sigma1Cyc: []int{0, 2},
		direct:    direct,
	}
	pk, w := buildToyKey(t, tc)

	seed := []uint64{11, 22, 33, 44}
	p1 := NewProver(pk, w, WithDeterministicBlinding(seed))
	proof1, err := p1.Prove()
	assert.NoError(err)

	p2 := NewProver(pk, w, WithDeterministicBlinding(seed))
	proof2, err := p2.Prove()
	assert.NoError(err)

	if diff := cmp.Diff(proof1, proof2); diff != "" {
		t.Fatalf("same seed must reproduce an identical proof, got diff:\n%s", diff)
	}
	assert.Equal("baby_plonk", proof1.Protocol)
	assert.Equal("bn254", proof1.Curve)
	assert.Len(proof1.PublicInputs, 1)
}

// TestProverS2CopyConstraintViolation is scenario S2: the public claim (10)
// no longer matches the tied internal value (9), so the permutation
// argument's closing check Z[0]==1 must fail.
func TestProverS2CopyConstraintViolation(t *testing.T) {
	assert := require.New(t)

	direct := make([]Scalar, 4)
	direct[1] = ScalarFromUint64(3)
	direct[2] = ScalarFromUint64(10) // wrong public claim
	direct[3] = ScalarFromUint64(9)  // still the correct internal value

	tc := toyCircuit{
		n:         4,
		nPublic:   1,
		aMap:      []uint32{2, 0, 3, 0},
		bMap:      []uint32{0, 0, 0, 0},
		sigma1Cyc: []int{0, 2},
		direct:    direct,
	}
	pk, w := buildToyKey(t, tc)

	_, err := NewProver(pk, w, WithDeterministicBlinding([]uint64{1, 2, 3, 4})).Prove()
	assert.Error(err)
	perr, ok := err.(*ProverError)
	assert.True(ok, "expected *ProverError, got %T", err)
	assert.Equal(CopyConstraintViolation, perr.Kind)
}

// TestProverS3ThreeTiedRows models the three-multiplication chain: a
// sigma1 3-cycle ties three row positions' A values together (standing in
// for a chain of wires threaded through three gates). There is no verifier
// in this core (spec §1 Non-goals), so this only checks that the prover
// completes; it cannot check "a companion verifier accepts".
func TestProverS3ThreeTiedRows(t *testing.T) {
	assert := require.New(t)

	direct := make([]Scalar, 3)
	direct[1] = ScalarFromUint64(42) // "out", tied across three rows
	direct[2] = ScalarFromUint64(42)

	aMap := make([]uint32, 8)
	aMap[0] = 1
	aMap[2] = 2
	aMap[4] = 2
	bMap := make([]uint32, 8)

	tc := toyCircuit{
		n:         8,
		nPublic:   1,
		aMap:      aMap,
		bMap:      bMap,
		sigma1Cyc: []int{0, 2, 4},
		direct:    direct,
	}
	pk, w := buildToyKey(t, tc)

	proof, err := NewProver(pk, w, WithDeterministicBlinding([]uint64{5, 6, 7, 8})).Prove()
	assert.NoError(err)
	assert.NotNil(proof)
}

// TestProverS4NoPublicInputs is scenario S4: same tied-row shape as S1 but
// with nPublic = 0, so round 2 must absorb zero public scalars before
// squeezing beta.
func TestProverS4NoPublicInputs(t *testing.T) {
	assert := require.New(t)

	direct := make([]Scalar, 4)
	direct[1] = ScalarFromUint64(3)
	direct[2] = ScalarFromUint64(9)
	direct[3] = ScalarFromUint64(9)

	tc := toyCircuit{
		n:         4,
		nPublic:   0,
		aMap:      []uint32{2, 0, 3, 0},
		bMap:      []uint32{0, 0, 0, 0},
		sigma1Cyc: []int{0, 2},
		direct:    direct,
	}
	pk, w := buildToyKey(t, tc)

	proof, err := NewProver(pk, w, WithDeterministicBlinding([]uint64{9, 9, 9, 9})).Prove()
	assert.NoError(err)
	assert.Empty(proof.PublicInputs)
}

// TestProverS5Additions is scenario S5: get_witness must resolve an
// addition-section entry (f1*w[id1] + f2*w[id2]) and feed it through the
// same tied-row copy constraint as S1.
func TestProverS5Additions(t *testing.T) {
	assert := require.New(t)

	direct := []Scalar{ScalarFromUint64(0), ScalarFromUint64(3), ScalarFromUint64(5)}
	additions := []Addition{
		{ID1: 1, ID2: 2, F1: ScalarFromUint64(1), F2: ScalarFromUint64(1)}, // w[3] = w[1] + w[2] = 8
	}

	aMap := make([]uint32, 16)
	aMap[0] = 3 // addition result, referenced as the public row
	aMap[2] = 3 // same addition result, tied via the sigma1 cycle
	bMap := make([]uint32, 16)

	tc := toyCircuit{
		n:         16,
		nPublic:   1,
		aMap:      aMap,
		bMap:      bMap,
		sigma1Cyc: []int{0, 2},
		direct:    direct,
		additions: additions,
	}
	pk, w := buildToyKey(t, tc)

	proof, err := NewProver(pk, w, WithDeterministicBlinding([]uint64{1})).Prove()
	assert.NoError(err)
	assert.Len(proof.PublicInputs, 1)
	var want Scalar
	want.SetUint64(8)
	assert.True(proof.PublicInputs[0].Equal(&want), "addition-section result (3+5) must reach the public input")
}
