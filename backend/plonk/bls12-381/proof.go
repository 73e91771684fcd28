package bls12381

import (
	"encoding/json"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// Proof is the keyed object spec §6 describes: named group commitments
// and named scalar evaluations, tagged with the protocol and curve name.
type Proof struct {
	Protocol string `json:"protocol" cbor:"protocol"`
	Curve    string `json:"curve" cbor:"curve"`

	A   G1Point `json:"-" cbor:"-"`
	B   G1Point `json:"-" cbor:"-"`
	Z   G1Point `json:"-" cbor:"-"`
	TL  G1Point `json:"-" cbor:"-"`
	TH  G1Point `json:"-" cbor:"-"`
	Wxi G1Point `json:"-" cbor:"-"`
	Wxw G1Point `json:"-" cbor:"-"`

	AEval  Scalar `json:"-" cbor:"-"`
	BEval  Scalar `json:"-" cbor:"-"`
	S1Eval Scalar `json:"-" cbor:"-"`
	AWEval Scalar `json:"-" cbor:"-"`
	BWEval Scalar `json:"-" cbor:"-"`
	ZWEval Scalar `json:"-" cbor:"-"`
	REval  Scalar `json:"-" cbor:"-"`

	PublicInputs []Scalar `json:"-" cbor:"-"`
}

// proofWire is the JSON/CBOR-serialisable shape: commitments as
// [2]string affine coordinates (decimal), evaluations as decimal
// strings, matching the snarkjs-style wire encoding spec §6 requires.
type proofWire struct {
	Protocol string            `json:"protocol" cbor:"protocol"`
	Curve    string            `json:"curve" cbor:"curve"`
	A        [2]string         `json:"A" cbor:"A"`
	B        [2]string         `json:"B" cbor:"B"`
	Z        [2]string         `json:"Z" cbor:"Z"`
	TL       [2]string         `json:"TL" cbor:"TL"`
	TH       [2]string         `json:"TH" cbor:"TH"`
	Wxi      [2]string         `json:"Wxi" cbor:"Wxi"`
	Wxiw     [2]string         `json:"Wxiw" cbor:"Wxiw"`
	Evals    map[string]string `json:"evaluations" cbor:"evaluations"`
	Public   []string          `json:"publicInputs" cbor:"publicInputs"`
}

func affineDecimal(p G1Point) [2]string {
	var x, y big.Int
	p.X.BigInt(&x)
	p.Y.BigInt(&y)
	return [2]string{x.String(), y.String()}
}

func scalarDecimal(s Scalar) string {
	var bi big.Int
	s.BigInt(&bi)
	return bi.String()
}

func (p *Proof) toWire() *proofWire {
	pubs := make([]string, len(p.PublicInputs))
	for i, s := range p.PublicInputs {
		pubs[i] = scalarDecimal(s)
	}
	return &proofWire{
		Protocol: p.Protocol,
		Curve:    p.Curve,
		A:        affineDecimal(p.A),
		B:        affineDecimal(p.B),
		Z:        affineDecimal(p.Z),
		TL:       affineDecimal(p.TL),
		TH:       affineDecimal(p.TH),
		Wxi:      affineDecimal(p.Wxi),
		Wxiw:     affineDecimal(p.Wxw),
		Evals: map[string]string{
			"a":  scalarDecimal(p.AEval),
			"b":  scalarDecimal(p.BEval),
			"s1": scalarDecimal(p.S1Eval),
			"aw": scalarDecimal(p.AWEval),
			"bw": scalarDecimal(p.BWEval),
			"zw": scalarDecimal(p.ZWEval),
			"r":  scalarDecimal(p.REval),
		},
		Public: pubs,
	}
}

// MarshalJSON encodes the proof in the snarkjs-compatible decimal-string
// form spec §6 requires.
func (p *Proof) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.toWire())
}

// MarshalCBOR encodes the proof compactly for internal transport/storage.
func (p *Proof) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(p.toWire())
}
