package bls12381

// Evaluations is a read-only indexable vector over the size-4n coset
// (spec §4.4). It never aliases a Polynomial's coefficient buffer.
type Evaluations struct {
	v []Scalar
}

// NewEvaluations wraps an existing value buffer.
func NewEvaluations(v []Scalar) *Evaluations {
	return &Evaluations{v: v}
}

// Len returns the buffer length (4n for a single polynomial, 8n for a
// paired sigma = sigma1 || sigma2 buffer).
func (e *Evaluations) Len() int { return len(e.v) }

// Get returns the scalar at position i, panicking on out-of-range access
// (spec: "bounds-checked").
func (e *Evaluations) Get(i int) Scalar {
	return e.v[i]
}

// GetWrapped returns the scalar at (i + n) mod n, where n is the buffer
// length.
func (e *Evaluations) GetWrapped(i int) Scalar {
	n := len(e.v)
	return e.v[((i%n)+n)%n]
}
