// Package transcript implements the Fiat-Shamir transcript used to derive
// the Baby-Plonk prover's challenges. It is curve-agnostic: it only ever
// deals in canonical little-endian byte strings, leaving the caller to
// encode/decode field and group elements for its own curve.
package transcript

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Transcript accumulates absorbed bytes into a running Keccak-256 state and
// derives challenges by squeezing the digest and reducing it modulo a
// caller-supplied modulus.
//
// squeeze finalises the current digest, reduces it mod r, then re-absorbs
// the raw (unreduced) digest bytes as the sole input to the next round, so
// that chained squeezes without an intervening absorb remain deterministic.
type Transcript struct {
	h hashState
}

// hashState is the subset of hash.Hash this package relies on, isolated so
// reset() can simply allocate a fresh one instead of depending on Keccak's
// (unexported) internal Reset semantics across sha3 versions.
type hashState interface {
	Write(p []byte) (int, error)
	Sum(b []byte) []byte
}

// New returns a fresh transcript with no prior absorbed state.
func New() *Transcript {
	return &Transcript{h: sha3.NewLegacyKeccak256()}
}

// Reset clears all digest state, as if New() had just been called.
func (t *Transcript) Reset() {
	t.h = sha3.NewLegacyKeccak256()
}

// AbsorbScalar appends the 32-byte (or n8r-byte) canonical little-endian,
// non-Montgomery encoding of a scalar to the running digest.
func (t *Transcript) AbsorbScalar(canonicalLE []byte) {
	_, _ = t.h.Write(canonicalLE)
}

// AbsorbGroup appends the affine (x, y) canonical base-field encoding of a
// group element to the running digest.
func (t *Transcript) AbsorbGroup(xLE, yLE []byte) {
	_, _ = t.h.Write(xLE)
	_, _ = t.h.Write(yLE)
}

// Squeeze finalises the digest, reduces it mod r, and restarts the
// transcript with the raw digest as its only prior input.
func (t *Transcript) Squeeze(r *big.Int) *big.Int {
	digest := t.h.Sum(nil)

	t.Reset()
	_, _ = t.h.Write(digest)

	challenge := new(big.Int).SetBytes(digest)
	challenge.Mod(challenge, r)
	return challenge
}
