package bn254

import (
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vocdoni/baby-plonk/internal/profiling"
	"github.com/vocdoni/baby-plonk/internal/transcript"
	"github.com/vocdoni/baby-plonk/internal/zkey"
)

// Prover orchestrates witness loading, zkey section access and the five
// Baby-Plonk rounds (spec §4.7). Its fields are the coherent working set
// described in spec §9 ("State with mutation"): buffers, polynomials,
// evaluations, challenges and the in-progress proof, all mutated in place
// by the round methods.
type Prover struct {
	pk  *ProvingKey
	w   *Witness
	cfg proverConfig
	tr  *transcript.Transcript
	log zerolog.Logger

	getWitness func(uint32) Scalar

	A, B         []Scalar // evaluation-form buffers over the circuit domain
	polA, polB   *Polynomial
	evalA, evalB *Evaluations // coset-4n evaluations of the *unblinded* A/B

	used *zkey.UsedSignals // debug-mode diagnostic, populated in preflight

	beta, gamma, alpha, alphaSq Scalar

	polZ  *Polynomial
	evalZ *Evaluations

	polTL, polTH *Polynomial

	zeta, zetaOmega Scalar

	aEval, bEval, s1Eval, tEval, awEval, bwEval, zwEval Scalar

	v0, v1, v2, v3, v0p, v1p Scalar

	proof Proof
	r     *big.Int // field modulus, for transcript squeezes

	blind blindingFactors
}

// blindingFactors is every freshly-sampled scalar the protocol consumes,
// collected so WithDeterministicBlinding can reproduce them from a seed.
type blindingFactors struct {
	b1, b2, b3, b4, b5, b6, b7, b8 Scalar
}

// NewProver constructs a Prover for one proving session. pk and w must
// already be curve-decoded (LoadProvingKey / LoadWitness).
func NewProver(pk *ProvingKey, w *Witness, opts ...ProverOption) *Prover {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Prover{
		pk:  pk,
		w:   w,
		cfg: cfg,
		tr:  transcript.New(),
		log: log.With().Str("curve", "bn254").Uint64("domain_size", pk.N).Logger(),
		r:   fr.Modulus(),
	}
}

// Prove runs the full five-round protocol and returns the completed proof.
func (p *Prover) Prove() (*Proof, error) {
	p.proof = Proof{Protocol: "baby_plonk", Curve: "bn254"}

	if err := p.preflight(); err != nil {
		return nil, err
	}

	rounds := []struct {
		name string
		fn   func() error
	}{
		{"round1", p.round1},
		{"round2", p.round2},
		{"round3", p.round3},
		{"round4", p.round4},
		{"round5", p.round5},
	}
	timings := make([]profiling.RoundTiming, 0, len(rounds))
	for _, r := range rounds {
		start := time.Now()
		if err := r.fn(); err != nil {
			p.log.Error().Str("round", r.name).Err(err).Msg("prover failed")
			return nil, err
		}
		d := time.Since(start)
		timings = append(timings, profiling.RoundTiming{Round: r.name, Duration: d})
		p.log.Debug().Str("round", r.name).Dur("took", d).Msg("round done")
	}

	if p.cfg.profileOut != nil {
		if err := profiling.WriteProfile(p.cfg.profileOut, timings); err != nil {
			return nil, newErr(IoError, "writing round-timing profile", err)
		}
	}

	if p.cfg.debugChecks && p.used != nil {
		p.log.Debug().Uint32("unused_signals", p.used.UnusedCount(p.pk.NVars)).Msg("preflight signal usage")
	}

	return &p.proof, nil
}

// preflight validates the proving key/witness pair, computes get_witness
// and builds the evaluation-form A/B buffers (spec §4.7 "Preflight" and
// "Buffers A, B").
func (p *Prover) preflight() error {
	pk, w := p.pk, p.w

	nDirect := int(pk.NVars) - int(pk.NAdditions)
	if nDirect < 0 || nDirect != len(w.Values) {
		return newErr(WitnessMismatch, "witness length does not match nVars-nAdditions", nil)
	}

	direct := make([]Scalar, len(w.Values))
	copy(direct, w.Values)
	direct[0].SetZero() // spec: "Zero the witness entry at index 0 (unused in the protocol)"

	internal := make([]Scalar, pk.NAdditions)

	getRaw := func(i uint32) Scalar {
		if int(i) < len(direct) {
			return direct[i]
		}
		j := int(i) - len(direct)
		if j >= 0 && j < len(internal) {
			return internal[j]
		}
		return Scalar{}
	}

	for idx, add := range pk.Additions {
		v1 := getRaw(add.ID1)
		v2 := getRaw(add.ID2)
		var t1, t2, sum Scalar
		t1.Mul(&add.F1, &v1)
		t2.Mul(&add.F2, &v2)
		sum.Add(&t1, &t2)
		internal[idx] = sum
	}
	p.getWitness = getRaw

	n := pk.N
	p.A = make([]Scalar, n)
	p.B = make([]Scalar, n)
	for i := uint64(0); i < n; i++ {
		var aIdx, bIdx uint32
		if i < uint64(len(pk.AMap)) {
			aIdx = pk.AMap[i]
		}
		if i < uint64(len(pk.BMap)) {
			bIdx = pk.BMap[i]
		}
		p.A[i] = getRaw(aIdx)

		bw := getRaw(bIdx)
		if i%2 == 1 {
			bw.Neg(&bw)
		}
		var kc Scalar
		if i < uint64(len(pk.KCorr)) {
			kc = pk.KCorr[i]
		}
		bw.Add(&bw, &kc)
		p.B[i] = bw
	}

	p.polA = FromEvaluations(pk.Domain, p.A)
	p.polB = FromEvaluations(pk.Domain, p.B)
	p.evalA = NewEvaluations(pk.Domain.CosetNTT4N(p.polA.Coefficients()))
	p.evalB = NewEvaluations(pk.Domain.CosetNTT4N(p.polB.Coefficients()))

	p.used = zkey.NewUsedSignals(pk.NVars)
	for i := uint64(0); i < n; i++ {
		if i < uint64(len(pk.AMap)) {
			p.used.Mark(pk.AMap[i])
		}
		if i < uint64(len(pk.BMap)) {
			p.used.Mark(pk.BMap[i])
		}
	}
	for _, add := range pk.Additions {
		p.used.Mark(add.ID1)
		p.used.Mark(add.ID2)
	}

	if err := p.sampleBlindingFactors(); err != nil {
		return err
	}
	p.polA.Blind([]Scalar{p.blind.b1, p.blind.b2})
	p.polB.Blind([]Scalar{p.blind.b3, p.blind.b4})

	return nil
}

func (p *Prover) sampleBlindingFactors() error {
	if p.cfg.blindSeed != nil {
		vals := deterministicScalars(p.cfg.blindSeed, 8)
		p.blind = blindingFactors{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7]}
		return nil
	}
	var vals [8]Scalar
	for i := range vals {
		s, err := RandomScalar()
		if err != nil {
			return newErr(IoError, "sampling blinding factor", err)
		}
		vals[i] = s
	}
	p.blind = blindingFactors{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7]}
	return nil
}

// round1 commits the (now blinded) wire polynomials.
func (p *Prover) round1() error {
	commA, err := MSM(p.pk.PTau, p.polA.Coefficients())
	if err != nil {
		return err
	}
	commB, err := MSM(p.pk.PTau, p.polB.Coefficients())
	if err != nil {
		return err
	}
	p.proof.A = commA
	p.proof.B = commB
	return nil
}

// round2 derives beta/gamma, builds the permutation polynomial Z, and
// commits it.
func (p *Prover) round2() error {
	pk := p.pk
	n := pk.N

	p.tr.Reset()
	for j := uint32(0); j < pk.NPublic; j++ {
		p.tr.AbsorbScalar(ScalarToBytesLE(p.A[j]))
	}
	xA, yA := affineBytesLE(p.proof.A)
	p.tr.AbsorbGroup(xA, yA)
	xB, yB := affineBytesLE(p.proof.B)
	p.tr.AbsorbGroup(xB, yB)
	beta := p.tr.Squeeze(p.r)
	p.beta = scalarFromBigInt(beta)

	p.tr.Reset()
	p.tr.AbsorbScalar(ScalarToBytesLE(p.beta))
	gamma := p.tr.Squeeze(p.r)
	p.gamma = scalarFromBigInt(gamma)

	sigma1n := cloneAndNTT(pk.Domain, pk.Sigma1Coeffs)
	sigma2n := cloneAndNTT(pk.Domain, pk.Sigma2Coeffs)

	nums := make([]Scalar, n)
	dens := make([]Scalar, n)
	roots := pk.Domain.RootsOfUnity()

	if err := p.chunked(int(n), func(i int) error {
		wi := roots[i]

		var t1, t2, num Scalar
		t1.Mul(&p.beta, &wi)
		t1.Add(&t1, &p.A[i])
		t1.Add(&t1, &p.gamma)

		t2.Mul(&p.beta, &pk.K1)
		t2.Mul(&t2, &wi)
		t2.Add(&t2, &p.B[i])
		t2.Add(&t2, &p.gamma)
		num.Mul(&t1, &t2)
		nums[i] = num

		var d1, d2, den Scalar
		d1.Mul(&p.beta, &sigma1n[i])
		d1.Add(&d1, &p.A[i])
		d1.Add(&d1, &p.gamma)

		d2.Mul(&p.beta, &sigma2n[i])
		d2.Add(&d2, &p.B[i])
		d2.Add(&d2, &p.gamma)
		den.Mul(&d1, &d2)
		dens[i] = den
		return nil
	}); err != nil {
		return err
	}

	invDens, err := BatchInverse(dens)
	if err != nil {
		return err
	}

	Z := make([]Scalar, n)
	Z[0].SetOne()
	for i := uint64(0); i < n; i++ {
		var ratio, next Scalar
		ratio.Mul(&nums[i], &invDens[i])
		next.Mul(&Z[i], &ratio)
		Z[(i+1)%n] = next
	}
	var one Scalar
	one.SetOne()
	if !Z[0].Equal(&one) {
		return newErr(CopyConstraintViolation, "Z[0] != 1 at close of round 2", nil)
	}

	p.polZ = FromEvaluations(pk.Domain, Z)
	p.evalZ = NewEvaluations(pk.Domain.CosetNTT4N(p.polZ.Coefficients()))
	p.polZ.Blind([]Scalar{p.blind.b5, p.blind.b6, p.blind.b7})

	commZ, err := MSM(pk.PTau, p.polZ.Coefficients())
	if err != nil {
		return err
	}
	p.proof.Z = commZ
	return nil
}

// chunked runs fn(i) for every i in [0, total), splitting the range into
// p.cfg.nbWorkers contiguous chunks run on separate goroutines (spec §5
// "Worker parallelism"). fn must only touch index i within its own call.
func (p *Prover) chunked(total int, fn func(i int) error) error {
	nbWorkers := p.cfg.nbWorkers
	if nbWorkers < 1 {
		nbWorkers = 1
	}
	var g errgroup.Group
	chunk := (total + nbWorkers - 1) / nbWorkers
	for start := 0; start < total; start += chunk {
		start := start
		end := start + chunk
		if end > total {
			end = total
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// round3 builds and commits the split quotient polynomial T = T_L + X^{n+1}*T_H.
func (p *Prover) round3() error {
	pk := p.pk
	n := pk.N
	n4 := 4 * n

	// No Reset here: continues the transcript state left by gamma's
	// Squeeze at the end of round 2 (spec §4.7 round 3 step 1).
	xZ, yZ := affineBytesLE(p.proof.Z)
	p.tr.AbsorbGroup(xZ, yZ)
	alpha := p.tr.Squeeze(p.r)
	p.alpha = scalarFromBigInt(alpha)
	p.alphaSq.Square(&p.alpha)

	l1Evals := l1CosetEvals(pk.Domain)

	evalAFull := NewEvaluations(pk.Domain.CosetNTT4N(p.polA.Coefficients()))
	evalBFull := NewEvaluations(pk.Domain.CosetNTT4N(p.polB.Coefficients()))
	evalZFull := NewEvaluations(pk.Domain.CosetNTT4N(p.polZ.Coefficients()))

	tEval := make([]Scalar, n4)
	tzEval := make([]Scalar, n4)

	q1 := NewEvaluations(pk.Q1Evals4N)
	q2 := NewEvaluations(pk.Q2Evals4N)
	sig1 := NewEvaluations(pk.Sigma1Evals4N)
	sig2 := NewEvaluations(pk.Sigma2Evals4N)

	err := p.chunked(int(n4), func(i int) error {
		gate := p.gateIdentity(i, p.evalA, p.evalB, q1, q2)
		perm := p.permIdentity(i, p.evalA, p.evalB, p.evalZ, sig1, sig2)
		zi := p.evalZ.Get(i)
		var c Scalar
		c.Sub(&zi, &one1())
		c.Mul(&c, &l1Evals[i])

		var ap, a2c Scalar
		ap.Mul(&p.alpha, &perm)
		a2c.Mul(&p.alphaSq, &c)

		var base Scalar
		base.Add(&gate, &ap)
		base.Add(&base, &a2c)

		var pub Scalar
		for j := uint32(0); j < pk.NPublic; j++ {
			block := uint64(j) * 5 * n
			l1j := pk.LagrangeFlat[block+n+uint64(i)]
			var term Scalar
			term.Mul(&l1j, &p.A[j])
			pub.Sub(&pub, &term)
		}
		base.Add(&base, &pub)
		tEval[i] = base

		gateF := p.gateIdentity(i, evalAFull, evalBFull, q1, q2)
		permF := p.permIdentity(i, evalAFull, evalBFull, evalZFull, sig1, sig2)
		ziF := evalZFull.Get(i)
		var cF Scalar
		cF.Sub(&ziF, &one1())
		cF.Mul(&cF, &l1Evals[i])

		var apF, a2cF Scalar
		apF.Mul(&p.alpha, &permF)
		a2cF.Mul(&p.alphaSq, &cF)

		var full Scalar
		full.Add(&gateF, &apF)
		full.Add(&full, &a2cF)

		var tz Scalar
		tz.Sub(&full, &base)
		tz.Add(&tz, &pub) // base already included pub; undo so tz holds only blinding delta
		tzEval[i] = tz
		return nil
	})
	if err != nil {
		return err
	}

	polT := FromEvaluations4N(pk.Domain, tEval)
	polT = polT.DivByZH(n)
	polTz := FromEvaluations4N(pk.Domain, tzEval)
	polT.Add(polTz, nil)

	// deg=n gives T_L n+1 main coefficients plus one appended blind
	// coefficient at position n+1 (length n+2); T_H holds the coefficients
	// from n+1 upward with that blind subtracted from its constant term,
	// so T = T_L + X^{n+1}*T_H.
	parts := polT.Split(2, int(n), []Scalar{p.blind.b8})
	commTL, err := MSM(pk.PTau, parts[0].Coefficients())
	if err != nil {
		return err
	}
	commTH, err := MSM(pk.PTau, parts[1].Coefficients())
	if err != nil {
		return err
	}
	p.proof.TL = commTL
	p.proof.TH = commTH
	p.polTL, p.polTH = parts[0], parts[1]
	return nil
}

func one1() Scalar {
	var o Scalar
	o.SetOne()
	return o
}

// gateIdentity evaluates G(i) (spec §4.7 round 3); zero on odd i. The i+4
// reads use GetWrapped, which wraps at the buffer length so i near the end
// of the coset still reads the paired row 4 steps ahead (spec §4.4).
func (p *Prover) gateIdentity(i int, evalA, evalB, q1, q2 *Evaluations) Scalar {
	var zero Scalar
	if i%2 != 0 {
		return zero
	}
	a, b, aw := evalA.Get(i), evalB.Get(i), evalA.GetWrapped(i+4)
	q1i, q1p, q2i, q2p := q1.Get(i), q1.GetWrapped(i+4), q2.Get(i), q2.GetWrapped(i+4)

	var t1, t2, t3, t4, out Scalar
	t1.Mul(&a, &q1i)
	t2.Mul(&b, &q2i)
	var ab Scalar
	ab.Mul(&a, &b)
	t3.Mul(&ab, &q1p)
	var aaw Scalar
	aaw.Mul(&a, &aw)
	t4.Mul(&aaw, &q2p)

	out.Add(&t1, &t2)
	out.Add(&out, &t3)
	out.Add(&out, &t4)
	bw := evalB.GetWrapped(i + 4)
	out.Add(&out, &bw)
	return out
}

// permIdentity evaluates P(i).
func (p *Prover) permIdentity(i int, evalA, evalB, evalZ, sigma1, sigma2 *Evaluations) Scalar {
	pk := p.pk
	zetaI := cosetPoint(pk.Domain, i)

	ai, bi := evalA.Get(i), evalB.Get(i)

	var t1, t2, left Scalar
	t1.Mul(&p.beta, &zetaI)
	t1.Add(&t1, &ai)
	t1.Add(&t1, &p.gamma)

	t2.Mul(&p.beta, &pk.K1)
	t2.Mul(&t2, &zetaI)
	t2.Add(&t2, &bi)
	t2.Add(&t2, &p.gamma)

	zi := evalZ.Get(i)
	left.Mul(&t1, &t2)
	left.Mul(&left, &zi)

	s1v, s2v := sigma1.Get(i), sigma2.Get(i)
	var s1, s2, right Scalar
	s1.Mul(&p.beta, &s1v)
	s1.Add(&s1, &ai)
	s1.Add(&s1, &p.gamma)

	s2.Mul(&p.beta, &s2v)
	s2.Add(&s2, &bi)
	s2.Add(&s2, &p.gamma)

	zp := evalZ.GetWrapped(i + 4)
	right.Mul(&s1, &s2)
	right.Mul(&right, &zp)

	var out Scalar
	out.Sub(&left, &right)
	return out
}

// round4 squeezes zeta and emits the opening evaluations.
func (p *Prover) round4() error {
	// No Reset here: continues from alpha's Squeeze at the end of round 3.
	xL, yL := affineBytesLE(p.proof.TL)
	p.tr.AbsorbGroup(xL, yL)
	xH, yH := affineBytesLE(p.proof.TH)
	p.tr.AbsorbGroup(xH, yH)
	zeta := p.tr.Squeeze(p.r)
	p.zeta = scalarFromBigInt(zeta)
	p.zetaOmega.Mul(&p.zeta, &p.pk.Domain.Omega)

	p.aEval = p.polA.Evaluate(p.zeta)
	p.bEval = p.polB.Evaluate(p.zeta)

	s1Poly := NewPolynomial(p.pk.Sigma1Coeffs)
	p.s1Eval = s1Poly.Evaluate(p.zeta)

	var zetaPowNp2 Scalar
	zetaPowNp2.Exp(p.zeta, big.NewInt(int64(p.pk.N)+2))
	tPoly := combinedLen(p.polTL, p.polTH)
	tPoly.Add(p.polTL, nil)
	tPoly.Add(p.polTH, &zetaPowNp2)
	p.tEval = tPoly.Evaluate(p.zeta)

	p.awEval = p.polA.Evaluate(p.zetaOmega)
	p.bwEval = p.polB.Evaluate(p.zetaOmega)
	p.zwEval = p.polZ.Evaluate(p.zetaOmega)
	return nil
}

// round5 builds the linearisation polynomial and the two opening proofs.
func (p *Prover) round5() error {
	pk := p.pk
	n := pk.N

	// No Reset here: continues from zeta's Squeeze at the end of round 4.
	for _, s := range []Scalar{p.aEval, p.bEval, p.s1Eval, p.awEval, p.bwEval, p.zwEval} {
		p.tr.AbsorbScalar(ScalarToBytesLE(s))
	}
	v0big := p.tr.Squeeze(p.r)
	p.v0 = scalarFromBigInt(v0big)
	p.v1.Mul(&p.v0, &p.v0)
	p.v2.Mul(&p.v1, &p.v0)
	p.v3.Mul(&p.v2, &p.v0)

	p.tr.Reset()
	p.tr.AbsorbScalar(ScalarToBytesLE(p.v0))
	v0pBig := p.tr.Squeeze(p.r)
	p.v0p = scalarFromBigInt(v0pBig)
	p.v1p.Mul(&p.v0p, &p.v0p)

	base := p.zeta
	for i := uint32(0); i < pk.K; i++ {
		base.Square(&base)
	}
	zetaN := base // zeta^n via k successive squarings, n = 2^k

	var one, l1num, l1den, l1 Scalar
	one.SetOne()
	l1num.Sub(&zetaN, &one)
	l1den.Sub(&p.zeta, &one)
	var nInv Scalar
	nInv.SetUint64(n)
	nInv.Inverse(&nInv)
	var l1denInv Scalar
	l1denInv.Inverse(&l1den)
	l1.Mul(&l1num, &l1denInv)
	l1.Mul(&l1, &nInv)

	// coef_Z = alpha*(a_+beta*zeta+gamma)(b_+beta*k1*zeta+gamma) + alphaSq*L1(zeta)
	var t1, t2, coefZ Scalar
	t1.Mul(&p.beta, &p.zeta)
	t1.Add(&t1, &p.aEval)
	t1.Add(&t1, &p.gamma)
	t2.Mul(&p.beta, &pk.K1)
	t2.Mul(&t2, &p.zeta)
	t2.Add(&t2, &p.bEval)
	t2.Add(&t2, &p.gamma)
	coefZ.Mul(&t1, &t2)
	coefZ.Mul(&coefZ, &p.alpha)
	var a2l1 Scalar
	a2l1.Mul(&p.alphaSq, &l1)
	coefZ.Add(&coefZ, &a2l1)

	// coef_S2 = (a_+beta*s1_+gamma) * beta * zw_ * alpha
	var coefS2 Scalar
	coefS2.Mul(&p.beta, &p.s1Eval)
	coefS2.Add(&coefS2, &p.aEval)
	coefS2.Add(&coefS2, &p.gamma)
	coefS2.Mul(&coefS2, &p.beta)
	coefS2.Mul(&coefS2, &p.zwEval)
	coefS2.Mul(&coefS2, &p.alpha)

	rLen := int(n) + 3
	rCoeffs := make([]Scalar, rLen)
	zCoeffs := p.polZ.Coefficients()
	q1 := pk.Q1Coeffs
	q2 := pk.Q2Coeffs
	sigma2 := pk.Sigma2Coeffs

	if err := p.chunked(rLen, func(i int) error {
		var c Scalar
		if i < len(zCoeffs) {
			c.Mul(&coefZ, &zCoeffs[i])
		}
		if i < int(n) && i%2 == 0 {
			ip1 := (i + 1) % int(n)
			var tt1, tt2, tt3, tt4 Scalar
			tt1.Mul(&p.aEval, &q1[i])
			tt2.Mul(&p.bEval, &q2[i])
			var ab Scalar
			ab.Mul(&p.aEval, &p.bEval)
			tt3.Mul(&ab, &q1[ip1])
			var aaw Scalar
			aaw.Mul(&p.aEval, &p.awEval)
			tt4.Mul(&aaw, &q2[ip1])
			c.Add(&c, &tt1)
			c.Add(&c, &tt2)
			c.Add(&c, &tt3)
			c.Add(&c, &tt4)
		}
		if i < int(n) {
			var s2term Scalar
			s2term.Mul(&coefS2, &sigma2[i])
			c.Sub(&c, &s2term)
		}
		rCoeffs[i] = c
		return nil
	}); err != nil {
		return err
	}
	polR := NewPolynomial(rCoeffs)
	rEval := polR.Evaluate(p.zeta)

	// W_zeta = T_L + zeta^{n+2}*T_H + v0*R + v1*polA + v2*polB + v3*sigma1
	//          - (t_ + v0*r_ + v1*a_ + v2*b_ + v3*s1_)
	var zetaPowNp2 Scalar
	zetaPowNp2.Exp(p.zeta, big.NewInt(int64(n)+2))

	sigma1Poly := NewPolynomial(append([]Scalar(nil), pk.Sigma1Coeffs...))
	wZeta := combinedLen(p.polTL, p.polTH, polR, p.polA, p.polB, sigma1Poly)
	wZeta.Add(p.polTL, nil)
	wZeta.Add(p.polTH, &zetaPowNp2)
	wZeta.Add(polR, &p.v0)
	wZeta.Add(p.polA, &p.v1)
	wZeta.Add(p.polB, &p.v2)
	wZeta.Add(sigma1Poly, &p.v3)

	var constTerm Scalar
	var v0r, v1a, v2b, v3s1 Scalar
	v0r.Mul(&p.v0, &rEval)
	v1a.Mul(&p.v1, &p.aEval)
	v2b.Mul(&p.v2, &p.bEval)
	v3s1.Mul(&p.v3, &p.s1Eval)
	constTerm.Add(&p.tEval, &v0r)
	constTerm.Add(&constTerm, &v1a)
	constTerm.Add(&constTerm, &v2b)
	constTerm.Add(&constTerm, &v3s1)
	wZeta.SubScalar(constTerm)

	wZetaQuot, err := wZeta.DivByXMinus(p.zeta, p.cfg.debugChecks)
	if err != nil {
		return err
	}
	commWxi, err := MSM(pk.PTau, wZetaQuot.Coefficients())
	if err != nil {
		return err
	}

	// W_{zeta*omega} = polZ + v0p*polA + v1p*polB - (zw_ + v0p*aw_ + v1p*bw_)
	wZw := p.polZ.Clone()
	wZw.Add(p.polA, &p.v0p)
	wZw.Add(p.polB, &p.v1p)
	var c2 Scalar
	var v0paw, v1pbw Scalar
	v0paw.Mul(&p.v0p, &p.awEval)
	v1pbw.Mul(&p.v1p, &p.bwEval)
	c2.Add(&p.zwEval, &v0paw)
	c2.Add(&c2, &v1pbw)
	wZw.SubScalar(c2)

	wZwQuot, err := wZw.DivByXMinus(p.zetaOmega, p.cfg.debugChecks)
	if err != nil {
		return err
	}
	commWzw, err := MSM(pk.PTau, wZwQuot.Coefficients())
	if err != nil {
		return err
	}

	p.proof.Wxi = commWxi
	p.proof.Wxw = commWzw
	p.proof.AEval = p.aEval
	p.proof.BEval = p.bEval
	p.proof.S1Eval = p.s1Eval
	p.proof.AWEval = p.awEval
	p.proof.BWEval = p.bwEval
	p.proof.ZWEval = p.zwEval
	p.proof.REval = rEval

	pubs := make([]Scalar, pk.NPublic)
	copy(pubs, p.A[:pk.NPublic])
	p.proof.PublicInputs = pubs

	return nil
}
