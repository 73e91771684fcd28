package zkey

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/compress/lzss"
	"github.com/ronanh/intcomp"
)

// CompactMaps holds the A_MAP/B_MAP constraint-index arrays in a
// delta+bitpacked form, used when a Container is cached in memory across
// many proving calls against the same circuit (the maps are the largest
// per-constraint metadata arrays that never change between proofs).
type CompactMaps struct {
	aMap, bMap []uint32
}

// Compact compresses c.AMap/c.BMap for storage.
func (c *Container) Compact() *CompactMaps {
	return &CompactMaps{
		aMap: intcomp.CompressUint32(append([]uint32(nil), c.AMap...), nil),
		bMap: intcomp.CompressUint32(append([]uint32(nil), c.BMap...), nil),
	}
}

// Expand restores the original A_MAP/B_MAP arrays from their compact form.
func (m *CompactMaps) Expand(nConstraints int) (aMap, bMap []uint32) {
	aMap = intcomp.UncompressUint32(m.aMap, make([]uint32, 0, nConstraints))
	bMap = intcomp.UncompressUint32(m.bMap, make([]uint32, 0, nConstraints))
	return aMap, bMap
}

// UsedSignals tracks, across a preflight pass over A_MAP/B_MAP, which
// witness signal ids were actually dereferenced by get_witness. It backs a
// debug-only "unused signal" diagnostic; it is never required for a proof
// to succeed.
type UsedSignals struct {
	seen *bitset.BitSet
}

// NewUsedSignals allocates a tracker sized for nVars signal ids.
func NewUsedSignals(nVars uint32) *UsedSignals {
	return &UsedSignals{seen: bitset.New(uint(nVars))}
}

// Mark records that signal id i was read by get_witness.
func (u *UsedSignals) Mark(i uint32) {
	u.seen.Set(uint(i))
}

// UnusedCount returns how many of the first nVars signal ids were never
// marked.
func (u *UsedSignals) UnusedCount(nVars uint32) uint32 {
	var n uint32
	for i := uint32(0); i < nVars; i++ {
		if !u.seen.Test(uint(i)) {
			n++
		}
	}
	return n
}

// CompressSections returns an LZSS-compressed copy of the raw Q1/Q2/Sigma/
// Lagrange/PTau section bytes, for callers that want to keep a parsed
// Container resident in memory (e.g. a long-running prover service serving
// many proofs against the same circuit) without paying the full
// uncompressed footprint.
func (c *Container) CompressSections() (map[uint32][]byte, error) {
	compressor, err := lzss.NewCompressor(nil)
	if err != nil {
		return nil, err
	}
	out := make(map[uint32][]byte, 5)
	raw := map[uint32][]byte{
		SectionQ1:       c.Q1,
		SectionQ2:       c.Q2,
		SectionSigma:    c.Sigma,
		SectionLagrange: c.Lagrange,
		SectionPTau:     c.PTau,
	}
	for id, b := range raw {
		compressed, err := compressor.Compress(b)
		if err != nil {
			return nil, err
		}
		out[id] = compressed
	}
	return out, nil
}
