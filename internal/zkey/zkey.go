// Package zkey reads the sectioned proving-key ("zkey") binary container
// described in spec §6. It only exposes the raw bytes and header fields;
// decoding section payloads into curve-specific scalars/points is left to
// the backend/plonk/<curve> packages, which know the concrete field and
// curve types.
package zkey

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/blang/semver/v4"
	"github.com/icza/bitio"
)

// Section identifiers, fixed by the container format.
const (
	SectionHeader      = uint32(1)
	SectionAdditions   = uint32(2)
	SectionAMap        = uint32(3)
	SectionBMap        = uint32(4)
	SectionKCorrection = uint32(5)
	SectionQ1          = uint32(6)
	SectionQ2          = uint32(7)
	SectionSigma       = uint32(8)
	SectionLagrange    = uint32(9)
	SectionPTau        = uint32(10)
)

// ProtocolBabyPlonk is the protocol_id this prover accepts.
const ProtocolBabyPlonk = uint32(2)

// minFormatVersion/maxFormatVersion bound the zkey container versions this
// reader understands. A container outside this range is rejected before any
// section is trusted, matching the "malformed sections" failure mode in
// spec §7 (InvalidProvingKey).
var (
	minFormatVersion = semver.MustParse("1.0.0")
	maxFormatVersion = semver.MustParse("1.999.999")
)

// Header carries the fixed-size fields read from the header section.
type Header struct {
	FormatVersion semver.Version
	N8r           uint32
	R             *big.Int
	N8q           uint32
	Q             *big.Int
	K             uint32
	K1            []byte // raw Fr bytes, curve package decodes
	NVars         uint32
	NPublic       uint32
	NAdditions    uint32
	NConstraints  uint32
	ProtocolID    uint32
}

// Addition is one record of the ADDITIONS section: an internal witness
// entry computed as factor1*w[signalID1] + factor2*w[signalID2].
type Addition struct {
	SignalID1, SignalID2 uint32
	Factor1, Factor2     []byte // raw Fr bytes, n8r each
}

// Container is a parsed, in-memory view of a zkey file's sections.
type Container struct {
	Header      Header
	Additions   []Addition
	AMap        []uint32
	BMap        []uint32
	KCorrection []byte // NConstraints * n8r bytes
	Q1          []byte // n*n8r || 4n*n8r
	Q2          []byte // n*n8r || 4n*n8r
	Sigma       []byte // (n+4n)*n8r*2
	Lagrange    []byte // nPublic * (n+4n) * n8r
	PTau        []byte // n * (2*n8q) affine points
}

// Parse reads a complete Container from r.
//
// The wire format is: a fixed-width section table (uint32 sectionID,
// uint64 offset, uint64 size) immediately following a uint32 section count, then the
// section payloads themselves in file order. This mirrors the sectioned
// container convention snarkjs-style zkey/wtns files use (spec §6), kept
// intentionally simple since the builder of this container is out of scope
// (§1) and only ever produced by a trusted offline step.
func Parse(r io.ReaderAt, size int64) (*Container, error) {
	sr := io.NewSectionReader(r, 0, size)

	var count uint32
	if err := binary.Read(sr, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("zkey: read section count: %w", err)
	}

	type tableEntry struct {
		id     uint32
		offset uint64
		size   uint64
	}
	table := make([]tableEntry, count)
	for i := range table {
		var e tableEntry
		if err := binary.Read(sr, binary.LittleEndian, &e.id); err != nil {
			return nil, fmt.Errorf("zkey: read section table: %w", err)
		}
		if err := binary.Read(sr, binary.LittleEndian, &e.offset); err != nil {
			return nil, fmt.Errorf("zkey: read section table: %w", err)
		}
		if err := binary.Read(sr, binary.LittleEndian, &e.size); err != nil {
			return nil, fmt.Errorf("zkey: read section table: %w", err)
		}
		table[i] = e
	}

	sections := make(map[uint32][]byte, len(table))
	for _, e := range table {
		buf := make([]byte, e.size)
		if _, err := r.ReadAt(buf, int64(e.offset)); err != nil && err != io.EOF {
			return nil, fmt.Errorf("zkey: read section %d: %w", e.id, err)
		}
		sections[e.id] = buf
	}

	hdrBytes, ok := sections[SectionHeader]
	if !ok {
		return nil, fmt.Errorf("zkey: missing header section")
	}
	hdr, err := parseHeader(hdrBytes)
	if err != nil {
		return nil, err
	}
	if hdr.ProtocolID != ProtocolBabyPlonk {
		return nil, fmt.Errorf("zkey: unsupported protocol id %d", hdr.ProtocolID)
	}
	if hdr.FormatVersion.LT(minFormatVersion) || hdr.FormatVersion.GT(maxFormatVersion) {
		return nil, fmt.Errorf("zkey: unsupported format version %s", hdr.FormatVersion)
	}

	c := &Container{
		Header:      *hdr,
		KCorrection: sections[SectionKCorrection],
		Q1:          sections[SectionQ1],
		Q2:          sections[SectionQ2],
		Sigma:       sections[SectionSigma],
		Lagrange:    sections[SectionLagrange],
		PTau:        sections[SectionPTau],
	}

	if additions, ok := sections[SectionAdditions]; ok {
		c.Additions, err = parseAdditions(additions, hdr.N8r, hdr.NAdditions)
		if err != nil {
			return nil, err
		}
	}
	if aMap, ok := sections[SectionAMap]; ok {
		c.AMap = decodeU32Array(aMap)
	}
	if bMap, ok := sections[SectionBMap]; ok {
		c.BMap = decodeU32Array(bMap)
	}

	return c, nil
}

func parseHeader(b []byte) (*Header, error) {
	br := bitio.NewReader(bytes.NewReader(b))

	readVersionString := func() (string, error) {
		n, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		buf := make([]byte, n)
		for i := range buf {
			v, err := br.ReadByte()
			if err != nil {
				return "", err
			}
			buf[i] = v
		}
		return string(buf), nil
	}

	versionStr, err := readVersionString()
	if err != nil {
		return nil, fmt.Errorf("zkey: read format version: %w", err)
	}
	version, err := semver.Parse(versionStr)
	if err != nil {
		return nil, fmt.Errorf("zkey: invalid format version %q: %w", versionStr, err)
	}

	readU32 := func() (uint32, error) {
		v, err := br.ReadBits(32)
		return uint32(v), err
	}
	readBytes := func(n uint32) ([]byte, error) {
		buf := make([]byte, n)
		for i := range buf {
			v, err := br.ReadByte()
			if err != nil {
				return nil, err
			}
			buf[i] = v
		}
		return buf, nil
	}

	var h Header
	h.FormatVersion = version

	if h.N8r, err = readU32(); err != nil {
		return nil, fmt.Errorf("zkey: read n8r: %w", err)
	}
	rBytes, err := readBytes(h.N8r)
	if err != nil {
		return nil, fmt.Errorf("zkey: read r: %w", err)
	}
	h.R = new(big.Int).SetBytes(reverse(rBytes))

	if h.N8q, err = readU32(); err != nil {
		return nil, fmt.Errorf("zkey: read n8q: %w", err)
	}
	qBytes, err := readBytes(h.N8q)
	if err != nil {
		return nil, fmt.Errorf("zkey: read q: %w", err)
	}
	h.Q = new(big.Int).SetBytes(reverse(qBytes))

	if h.K, err = readU32(); err != nil {
		return nil, err
	}
	if h.K1, err = readBytes(h.N8r); err != nil {
		return nil, fmt.Errorf("zkey: read k1: %w", err)
	}
	if h.NVars, err = readU32(); err != nil {
		return nil, err
	}
	if h.NPublic, err = readU32(); err != nil {
		return nil, err
	}
	if h.NAdditions, err = readU32(); err != nil {
		return nil, err
	}
	if h.NConstraints, err = readU32(); err != nil {
		return nil, err
	}
	if h.ProtocolID, err = readU32(); err != nil {
		return nil, err
	}

	return &h, nil
}

func parseAdditions(b []byte, n8r uint32, n uint32) ([]Addition, error) {
	recSize := 8 + 2*int(n8r)
	if len(b) < int(n)*recSize {
		return nil, fmt.Errorf("zkey: additions section too short")
	}
	out := make([]Addition, n)
	off := 0
	for i := range out {
		out[i].SignalID1 = binary.LittleEndian.Uint32(b[off:])
		out[i].SignalID2 = binary.LittleEndian.Uint32(b[off+4:])
		out[i].Factor1 = append([]byte(nil), b[off+8:off+8+int(n8r)]...)
		out[i].Factor2 = append([]byte(nil), b[off+8+int(n8r):off+8+2*int(n8r)]...)
		off += recSize
	}
	return out, nil
}

func decodeU32Array(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
