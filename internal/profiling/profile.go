// Package profiling emits a pprof-format profile of the prover's
// per-round timings, so the five Baby-Plonk rounds can be inspected with
// standard pprof tooling (`go tool pprof`) even though the prover itself
// has no CPU-sampling hooks of its own.
package profiling

import (
	"io"
	"time"

	"github.com/google/pprof/profile"
)

// RoundTiming is one sample: a named round and how long it took.
type RoundTiming struct {
	Round    string
	Duration time.Duration
}

// WriteProfile encodes timings as a gzip-compressed pprof profile with a
// single "round_duration" sample type in nanoseconds, one sample per round, and writes it to
// w. The resulting profile can be opened with `go tool pprof`.
func WriteProfile(w io.Writer, timings []RoundTiming) error {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "round_duration", Unit: "nanoseconds"},
		},
		TimeNanos: time.Now().UnixNano(),
	}

	funcs := make(map[string]*profile.Function, len(timings))
	locs := make(map[string]*profile.Location, len(timings))
	var nextID uint64 = 1

	for _, t := range timings {
		fn, ok := funcs[t.Round]
		if !ok {
			fn = &profile.Function{ID: nextID, Name: "round:" + t.Round}
			nextID++
			funcs[t.Round] = fn
			p.Function = append(p.Function, fn)
		}
		loc, ok := locs[t.Round]
		if !ok {
			loc = &profile.Location{
				ID:   nextID,
				Line: []profile.Line{{Function: fn}},
			}
			nextID++
			locs[t.Round] = loc
			p.Location = append(p.Location, loc)
		}
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{t.Duration.Nanoseconds()},
		})
	}

	return p.Write(w)
}
