//go:build icicle

package bls12381

import (
	icicle "github.com/ingonyama-zk/iciclegnark/curves/bls12381"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// G1Point is the curve's affine G1 representation.
type G1Point = bls12381.G1Affine

// MSM is the GPU-accelerated counterpart of the default msm.go build: it
// copies points/scalars onto the device, runs icicle's MSM kernel and
// copies the result back, instead of gnark-crypto's CPU MultiExp (spec
// §4.6). Grounded on the icicle offload pattern used by the pack's own
// groth16 GPU backend (other_examples groth16-bn254-prove.go: CudaMalloc /
// BatchConvertFromG1Affine / CudaMemCpyHtoD / MsmOnDevice), adapted from the
// raw icicle bindings to the iciclegnark wrapper this module depends on.
func MSM(points []G1Point, scalars []Scalar) (G1Point, error) {
	if len(points) < len(scalars) {
		return G1Point{}, newErr(InvalidProvingKey, "msm: fewer powers-of-tau points than scalars", nil)
	}
	points = points[:len(scalars)]

	devicePoints, err := icicle.CopyPointsToDevice(points)
	if err != nil {
		return G1Point{}, newErr(IoError, "msm: copying points to device", err)
	}
	defer devicePoints.Free()

	deviceScalars, err := icicle.CopyScalarsToDevice(scalars)
	if err != nil {
		return G1Point{}, newErr(IoError, "msm: copying scalars to device", err)
	}
	defer deviceScalars.Free()

	res, err := icicle.MsmOnDevice(deviceScalars, devicePoints, len(scalars))
	if err != nil {
		return G1Point{}, newErr(IoError, "msm: device multi-exponentiation failed", err)
	}
	return res, nil
}

// affineBytesLE encodes a G1 point's (x, y) as canonical little-endian
// base-field integers, for absorbing into the transcript (spec §4.5/§6).
func affineBytesLE(p G1Point) (x, y []byte) {
	return fpBytesLE(&p.X), fpBytesLE(&p.Y)
}

func fpBytesLE(e interface{ Marshal() []byte }) []byte {
	b := e.Marshal()
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
