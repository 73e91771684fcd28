// Package wtns reads the witness binary container described in spec §6:
// a header (n8, q, nWitness) followed by nWitness field elements.
package wtns

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/icza/bitio"
)

// Witness is a parsed witness file: the field modulus it was computed
// against, the element byte width, and the ordered scalar buffer (raw
// little-endian bytes, n8 each — curve packages decode into fr.Element).
type Witness struct {
	N8       uint32
	Q        *big.Int
	NWitness uint32
	Values   [][]byte // len == NWitness, each N8 bytes, little-endian
}

// Parse reads a complete Witness from r.
func Parse(r io.Reader) (*Witness, error) {
	br := bitio.NewReader(r)

	n8, err := readU32(br)
	if err != nil {
		return nil, fmt.Errorf("wtns: read n8: %w", err)
	}

	qBytes := make([]byte, n8)
	for i := range qBytes {
		v, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("wtns: read q: %w", err)
		}
		qBytes[i] = v
	}
	q := new(big.Int).SetBytes(reverseBytes(qBytes))

	nWitness, err := readU32(br)
	if err != nil {
		return nil, fmt.Errorf("wtns: read nWitness: %w", err)
	}

	values := make([][]byte, nWitness)
	for i := range values {
		buf := make([]byte, n8)
		for j := range buf {
			v, err := br.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("wtns: read value %d: %w", i, err)
			}
			buf[j] = v
		}
		values[i] = buf
	}

	return &Witness{N8: n8, Q: q, NWitness: nWitness, Values: values}, nil
}

func readU32(br *bitio.Reader) (uint32, error) {
	v, err := br.ReadBits(32)
	return uint32(v), err
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// NewReaderFromBytes is a convenience constructor used by tests that build
// a witness file in memory instead of loading one from disk.
func NewReaderFromBytes(b []byte) io.Reader {
	return bytes.NewReader(b)
}
