// Package bls12381 implements the Baby-Plonk prover core (spec §2-§9) over
// the BLS12-381 curve, built on gnark-crypto's bls12-381 field/curve
// primitives. It mirrors backend/plonk/bn254 field-for-field; the two
// packages share no code because gnark-crypto's fr.Element types differ
// per curve and Go generics don't reach across that boundary cleanly for
// the Montgomery-form arithmetic this prover leans on directly.
package bls12381

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Scalar is F_r, realised by gnark-crypto's Montgomery-resident element.
type Scalar = fr.Element

// ScalarFromUint64 is FieldOps.from_u64.
func ScalarFromUint64(v uint64) Scalar {
	var s Scalar
	s.SetUint64(v)
	return s
}

// ScalarFromBytesLE is FieldOps.from_bytes_le: decode a canonical
// little-endian byte string (as found on the wire / in the transcript)
// into Montgomery form.
func ScalarFromBytesLE(b []byte) Scalar {
	var s Scalar
	bi := new(big.Int).SetBytes(reverseBytes(b))
	s.SetBigInt(bi)
	return s
}

// ScalarToBytesLE is FieldOps.to_bytes_le: the canonical (non-Montgomery)
// little-endian encoding used on the wire and absorbed into the
// transcript.
func ScalarToBytesLE(s Scalar) []byte {
	bi := new(big.Int)
	s.BigInt(bi)
	out := make([]byte, fr.Bytes)
	bi.FillBytes(out) // big-endian, zero-padded to fr.Bytes
	return reverseBytes(out)
}

// scalarFromBigInt builds a Scalar from an arbitrary *big.Int, reducing
// mod r as SetBigInt does.
func scalarFromBigInt(bi *big.Int) Scalar {
	var s Scalar
	s.SetBigInt(bi)
	return s
}

// deterministicScalars expands a short seed into count distinct, non-zero
// scalars for WithDeterministicBlinding. It is a reproducibility aid for
// tests (spec §8 S1), not a security-sensitive generator.
func deterministicScalars(seed []uint64, count int) []Scalar {
	out := make([]Scalar, count)
	var acc Scalar
	acc.SetOne()
	for i := 0; i < count; i++ {
		var s Scalar
		s.SetUint64(uint64(i) + 1)
		if i < len(seed) {
			var extra Scalar
			extra.SetUint64(seed[i])
			s.Add(&s, &extra)
		}
		s.Add(&s, &acc)
		acc.Square(&acc)
		acc.Add(&acc, &s)
		out[i] = s
	}
	return out
}

// RandomScalar is FieldOps.random().
func RandomScalar() (Scalar, error) {
	var s Scalar
	if _, err := s.SetRandom(); err != nil {
		return Scalar{}, err
	}
	return s, nil
}

// BatchInverse is FieldOps.batch_inverse, using gnark-crypto's own
// Montgomery's-trick batch inversion (spec §4.1: running products,
// single inverse, back-propagate). A zero element is a ZeroInversion
// error, not a panic.
func BatchInverse(values []Scalar) ([]Scalar, error) {
	for i := range values {
		if values[i].IsZero() {
			return nil, newErr(ZeroInversion, "batch_inverse of zero element", nil)
		}
	}
	return fr.BatchInvert(values), nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
