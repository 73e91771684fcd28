package transcript_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocdoni/baby-plonk/internal/transcript"
)

var testModulus, _ = new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

func TestSqueezeDeterministic(t *testing.T) {
	assert := require.New(t)

	run := func() *big.Int {
		tr := transcript.New()
		tr.AbsorbScalar([]byte{1, 2, 3})
		tr.AbsorbGroup([]byte{4, 5}, []byte{6, 7})
		return tr.Squeeze(testModulus)
	}

	c1 := run()
	c2 := run()
	assert.Equal(0, c1.Cmp(c2), "two transcripts absorbing identical bytes must squeeze identical challenges")
}

func TestSqueezeDivergesOnDifferentInput(t *testing.T) {
	assert := require.New(t)

	tr1 := transcript.New()
	tr1.AbsorbScalar([]byte{1, 2, 3})
	c1 := tr1.Squeeze(testModulus)

	tr2 := transcript.New()
	tr2.AbsorbScalar([]byte{1, 2, 4})
	c2 := tr2.Squeeze(testModulus)

	assert.NotEqual(0, c1.Cmp(c2), "differing absorbed bytes must not squeeze the same challenge")
}

func TestSqueezeReducedModR(t *testing.T) {
	assert := require.New(t)

	tr := transcript.New()
	tr.AbsorbScalar([]byte{9, 9, 9, 9})
	c := tr.Squeeze(testModulus)

	assert.True(c.Sign() >= 0)
	assert.Equal(-1, c.Cmp(testModulus), "squeezed challenge must be strictly less than the modulus")
}

// TestResetRestartsDigest mirrors the protocol's own reset points (spec
// §4.5/§4.7): Reset must make the transcript behave as if freshly
// constructed, not merely clear pending-but-unwritten state.
func TestResetRestartsDigest(t *testing.T) {
	assert := require.New(t)

	tr := transcript.New()
	tr.AbsorbScalar([]byte{1, 2, 3, 4, 5})
	tr.Reset()
	tr.AbsorbScalar([]byte{9})
	got := tr.Squeeze(testModulus)

	fresh := transcript.New()
	fresh.AbsorbScalar([]byte{9})
	want := fresh.Squeeze(testModulus)

	assert.Equal(0, got.Cmp(want), "Reset must discard everything absorbed before it")
}

// TestSqueezeChainsWithoutAbsorb checks back-to-back squeezes: a Squeeze
// with no intervening Reset or absorb re-seeds the digest from its own raw
// output, so two independent chained squeezes over the same prior state
// still agree.
func TestSqueezeChainsWithoutAbsorb(t *testing.T) {
	assert := require.New(t)

	run := func() (*big.Int, *big.Int) {
		tr := transcript.New()
		tr.AbsorbScalar([]byte{7, 7, 7})
		first := tr.Squeeze(testModulus)
		second := tr.Squeeze(testModulus)
		return first, second
	}

	a1, a2 := run()
	b1, b2 := run()

	assert.Equal(0, a1.Cmp(b1))
	assert.Equal(0, a2.Cmp(b2))
	assert.NotEqual(0, a1.Cmp(a2), "chained squeezes without an absorb must still produce distinct challenges")
}
