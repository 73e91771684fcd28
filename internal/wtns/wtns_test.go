package wtns_test

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocdoni/baby-plonk/internal/wtns"
)

// buildWtnsBytes assembles a minimal wtns container by hand: a big-endian
// u32 n8, n8 little-endian bytes of q, a big-endian u32 nWitness, then
// nWitness * n8 raw value bytes.
func buildWtnsBytes(n8 uint32, q *big.Int, values [][]byte) []byte {
	var buf []byte

	putU32 := func(v uint32) {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, v)
		buf = append(buf, b...)
	}

	putU32(n8)

	qBE := make([]byte, n8)
	q.FillBytes(qBE)
	qLE := make([]byte, n8)
	for i, b := range qBE {
		qLE[n8-1-uint32(i)] = b
	}
	buf = append(buf, qLE...)

	putU32(uint32(len(values)))
	for _, v := range values {
		buf = append(buf, v...)
	}
	return buf
}

// TestParseRoundTripFromBytes exercises NewReaderFromBytes against a
// hand-assembled witness container (spec §6's wtns format), checking that
// Parse recovers the header fields and raw value bytes unchanged.
func TestParseRoundTripFromBytes(t *testing.T) {
	assert := require.New(t)

	const n8 = 8
	q := big.NewInt(2188824287183927522)
	v0 := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	v1 := []byte{9, 9, 0, 0, 0, 0, 0, 0}

	raw := buildWtnsBytes(n8, q, [][]byte{v0, v1})

	w, err := wtns.Parse(wtns.NewReaderFromBytes(raw))
	assert.NoError(err)
	assert.EqualValues(n8, w.N8)
	assert.Equal(0, q.Cmp(w.Q))
	assert.EqualValues(2, w.NWitness)
	assert.Equal([][]byte{v0, v1}, w.Values)
}

func TestParseRejectsTruncatedInput(t *testing.T) {
	assert := require.New(t)

	raw := buildWtnsBytes(8, big.NewInt(17), [][]byte{{1, 2, 3, 4, 5, 6, 7, 8}})
	truncated := raw[:len(raw)-4]

	_, err := wtns.Parse(wtns.NewReaderFromBytes(truncated))
	assert.Error(err)
}
