package bls12381

import (
	"io"
	"runtime"
)

// proverConfig holds the functional-options config described in
// SPEC_FULL §2.1, in the style of gnark-crypto's fft.Option /
// ecc.MultiExpConfig option pattern.
type proverConfig struct {
	nbWorkers   int
	debugChecks bool
	blindSeed   []uint64  // optional deterministic blinding factors, for S1's reproducibility property
	profileOut  io.Writer // optional pprof round-timing sink, see WithProfile
}

// ProverOption configures a Prove call.
type ProverOption func(*proverConfig)

func defaultConfig() proverConfig {
	return proverConfig{
		nbWorkers:   runtime.GOMAXPROCS(0),
		debugChecks: false,
	}
}

// WithProfile causes Prove to write a pprof-format profile of its five
// round timings to w once the proof completes (see internal/profiling).
func WithProfile(w io.Writer) ProverOption {
	return func(c *proverConfig) {
		c.profileOut = w
	}
}

// WithWorkers overrides how many goroutines the per-index loops in rounds
// 2, 3 and 5 may use (spec §5).
func WithWorkers(n int) ProverOption {
	return func(c *proverConfig) {
		if n > 0 {
			c.nbWorkers = n
		}
	}
}

// WithDebugChecks enables the debug-mode checks spec §9 leaves optional:
// the div_by_x_minus remainder check, plus a debug log of the unused
// witness-signal count. No degree assertions are performed either way.
func WithDebugChecks() ProverOption {
	return func(c *proverConfig) {
		c.debugChecks = true
	}
}

// WithDeterministicBlinding fixes the blinding scalars b1..b8 (and the
// permutation/quotient blinding factors) from a seed, so that two calls
// with the same seed, circuit and witness reproduce byte-identical proofs
// (spec §8, scenario S1).
func WithDeterministicBlinding(seed []uint64) ProverOption {
	return func(c *proverConfig) {
		c.blindSeed = seed
	}
}
