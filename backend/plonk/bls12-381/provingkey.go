package bls12381

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/rs/zerolog/log"

	"github.com/vocdoni/baby-plonk/internal/wtns"
	"github.com/vocdoni/baby-plonk/internal/zkey"
)

// Addition is one precomputed internal witness entry: f1*w[id1] + f2*w[id2].
type Addition struct {
	ID1, ID2 uint32
	F1, F2   Scalar
}

// ProvingKey is the decoded, curve-typed view of a zkey container (spec
// §3/§6). It is constructed once per proof and is otherwise read-only.
type ProvingKey struct {
	N            uint64
	K            uint32
	K1           Scalar
	NVars        uint32
	NPublic      uint32
	NAdditions   uint32
	NConstraints uint32

	Additions []Addition
	AMap      []uint32
	BMap      []uint32
	KCorr     []Scalar

	Q1Coeffs, Q1Evals4N []Scalar
	Q2Coeffs, Q2Evals4N []Scalar

	Sigma1Coeffs, Sigma1Evals4N []Scalar
	Sigma2Coeffs, Sigma2Evals4N []Scalar

	// LagrangeFlat holds, for each public input j, a 5n-scalar block:
	// [0,n) coefficients followed by [n,5n) coset evaluations, matching
	// the eval_L1[j*5n + n + i] indexing spec §4.7 round 3 uses.
	LagrangeFlat []Scalar

	PTau []G1Point

	Domain *Domain
}

// LoadProvingKey decodes a parsed zkey.Container into a curve-typed
// ProvingKey, verifying the BLS12-381 field match and the structural
// invariants spec §4.7's preflight step requires.
func LoadProvingKey(c *zkey.Container) (*ProvingKey, error) {
	h := c.Header
	if h.ProtocolID != zkey.ProtocolBabyPlonk {
		return nil, newErr(InvalidProvingKey, "unexpected protocol id", nil)
	}
	if h.R.Cmp(fr.Modulus()) != 0 {
		return nil, newErr(InvalidProvingKey, "zkey field modulus does not match BLS12-381 Fr", nil)
	}

	n := uint64(1) << h.K
	domain, err := NewDomain(n)
	if err != nil {
		return nil, err
	}

	// Round-trip AMap/BMap through the compacted (delta+bitpacked) form: a
	// long-running service keeps the compacted form resident across many
	// proofs against the same circuit and only expands it here, once per
	// proof, rather than holding the full uint32 arrays at all times.
	compact := c.Compact()
	aMap, bMap := compact.Expand(len(c.AMap))

	pk := &ProvingKey{
		N:            n,
		K:            h.K,
		K1:           decodeScalar(h.K1),
		NVars:        h.NVars,
		NPublic:      h.NPublic,
		NAdditions:   h.NAdditions,
		NConstraints: h.NConstraints,
		AMap:         aMap,
		BMap:         bMap,
		Domain:       domain,
	}

	if compressed, err := c.CompressSections(); err == nil {
		var rawLen, compLen int
		for id, b := range compressed {
			compLen += len(b)
			switch id {
			case zkey.SectionQ1:
				rawLen += len(c.Q1)
			case zkey.SectionQ2:
				rawLen += len(c.Q2)
			case zkey.SectionSigma:
				rawLen += len(c.Sigma)
			case zkey.SectionLagrange:
				rawLen += len(c.Lagrange)
			case zkey.SectionPTau:
				rawLen += len(c.PTau)
			}
		}
		log.Debug().Int("raw_bytes", rawLen).Int("compressed_bytes", compLen).Msg("zkey section footprint")
	}

	pk.Additions = make([]Addition, len(c.Additions))
	for i, a := range c.Additions {
		pk.Additions[i] = Addition{
			ID1: a.SignalID1, ID2: a.SignalID2,
			F1: decodeScalar(a.Factor1), F2: decodeScalar(a.Factor2),
		}
	}

	pk.KCorr = decodeScalars(c.KCorrection)

	n8r := int(h.N8r)
	pk.Q1Coeffs, pk.Q1Evals4N = splitCoeffsEvals(c.Q1, n, n8r)
	pk.Q2Coeffs, pk.Q2Evals4N = splitCoeffsEvals(c.Q2, n, n8r)

	s1c, rest := decodeScalarsN(c.Sigma, n, n8r)
	s1e, rest := decodeScalarsN(rest, 4*n, n8r)
	s2c, rest := decodeScalarsN(rest, n, n8r)
	s2e, _ := decodeScalarsN(rest, 4*n, n8r)
	pk.Sigma1Coeffs, pk.Sigma1Evals4N = s1c, s1e
	pk.Sigma2Coeffs, pk.Sigma2Evals4N = s2c, s2e

	pk.LagrangeFlat = decodeScalars(c.Lagrange)

	pk.PTau = decodePoints(c.PTau, int(h.N8q))

	return pk, nil
}

func splitCoeffsEvals(raw []byte, n uint64, n8r int) (coeffs, evals []Scalar) {
	coeffs, rest := decodeScalarsN(raw, n, n8r)
	evals, _ = decodeScalarsN(rest, 4*n, n8r)
	return coeffs, evals
}

func decodeScalar(b []byte) Scalar {
	return ScalarFromBytesLE(b)
}

func decodeScalars(raw []byte) []Scalar {
	n8r := fr.Bytes
	count := len(raw) / n8r
	out := make([]Scalar, count)
	for i := 0; i < count; i++ {
		out[i] = ScalarFromBytesLE(raw[i*n8r : (i+1)*n8r])
	}
	return out
}

func decodeScalarsN(raw []byte, count uint64, n8r int) ([]Scalar, []byte) {
	out := make([]Scalar, count)
	for i := uint64(0); i < count; i++ {
		out[i] = ScalarFromBytesLE(raw[int(i)*n8r : int(i+1)*n8r])
	}
	return out, raw[int(count)*n8r:]
}

func decodePoints(raw []byte, n8q int) []G1Point {
	count := len(raw) / (2 * n8q)
	out := make([]G1Point, count)
	for i := 0; i < count; i++ {
		off := i * 2 * n8q
		xBytes := reverseBytes(raw[off : off+n8q])
		yBytes := reverseBytes(raw[off+n8q : off+2*n8q])
		out[i].X.SetBigInt(new(big.Int).SetBytes(xBytes))
		out[i].Y.SetBigInt(new(big.Int).SetBytes(yBytes))
	}
	return out
}

// Witness is the curve-typed decoded witness (spec §3).
type Witness struct {
	Values []Scalar
}

// LoadWitness decodes a parsed wtns.Witness, verifying the field prime
// matches BLS12-381 Fr (spec §7 WitnessMismatch).
func LoadWitness(w *wtns.Witness) (*Witness, error) {
	if w.Q.Cmp(fr.Modulus()) != 0 {
		return nil, newErr(WitnessMismatch, "witness field prime does not match BLS12-381 Fr", nil)
	}
	values := make([]Scalar, len(w.Values))
	for i, b := range w.Values {
		values[i] = ScalarFromBytesLE(b)
	}
	return &Witness{Values: values}, nil
}
