//go:build !icicle

package bls12381

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// G1Point is the curve's affine G1 representation.
type G1Point = bls12381.G1Affine

// MSM implements spec §4.6: a windowed Pippenger-style multi-scalar
// multiplication over the precomputed powers-of-tau table. points may be
// longer than scalars; trailing points are ignored.
//
// scalars are passed in Montgomery form (gnark-crypto's native
// representation); MultiExp is told as much via ScalarsMont so it can
// skip converting them out of Montgomery form itself, matching
// gnark-crypto's own kzg.Commit usage (see the pack's
// ecc-bls12-377-fr-kzg-kzg.go.go reference).
//
// This is the CPU path (build tag !icicle); msm_icicle.go offloads the
// same computation to a GPU when built with -tags icicle.
func MSM(points []G1Point, scalars []Scalar) (G1Point, error) {
	if len(points) < len(scalars) {
		return G1Point{}, newErr(InvalidProvingKey, "msm: fewer powers-of-tau points than scalars", nil)
	}
	var res G1Point
	cfg := ecc.MultiExpConfig{ScalarsMont: true}
	if _, err := res.MultiExp(points[:len(scalars)], scalars, cfg); err != nil {
		return G1Point{}, newErr(IoError, "msm: multi-exponentiation failed", err)
	}
	return res, nil
}

// affineBytesLE encodes a G1 point's (x, y) as canonical little-endian
// base-field integers, for absorbing into the transcript (spec §4.5/§6).
func affineBytesLE(p G1Point) (x, y []byte) {
	return fpBytesLE(&p.X), fpBytesLE(&p.Y)
}

func fpBytesLE(e interface{ Marshal() []byte }) []byte {
	// fp.Element.Marshal returns canonical big-endian bytes; reverse for
	// the transcript/wire's little-endian convention.
	b := e.Marshal()
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
