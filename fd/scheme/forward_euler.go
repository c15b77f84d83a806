package scheme

import "github.com/halvard-quant/fdpricer/fd"

// ForwardEuler is explicit and cheapest per step, but only conditionally
// stable: spec.md §4.E requires dt*sigma^2/dx^2 < 1/2, a property of the
// caller's configuration rather than something enforced here.
type ForwardEuler struct {
	d   *fd.TridiagonalOperator
	bcs fd.BoundaryConditionSet
	e   fd.TridiagonalOperator // cached explicit part: I - dt*D
	dt  float64
}

// NewForwardEuler builds a ForwardEuler scheme over operator d (held by
// reference, per spec.md §9 "ownership": the scheme does not copy D).
func NewForwardEuler(d *fd.TridiagonalOperator, bcs fd.BoundaryConditionSet) *ForwardEuler {
	s := &ForwardEuler{d: d, bcs: bcs}
	s.e = fd.Identity(d.Size())
	return s
}

// SetStep caches E = I - dt*D. With dt=0, Step returns its input
// unchanged (spec.md §9).
func (s *ForwardEuler) SetStep(dt float64) {
	s.dt = dt
	s.e.AddIdentityInPlace(1, -dt, *s.d)
}

// Step computes a <- E*a, refreshing D and E first if D is time-dependent.
func (s *ForwardEuler) Step(a fd.Array, t float64) (fd.Array, error) {
	if s.dt == 0 {
		return a, nil
	}
	if s.d.IsTimeDependent() {
		s.d.SetTime(t)
		s.e.AddIdentityInPlace(1, -s.dt, *s.d)
	}
	out, err := applyOp(s.e, s.bcs, a)
	if err != nil {
		return fd.Array{}, err
	}
	if err := checkFinite(out); err != nil {
		return fd.Array{}, err
	}
	return out, nil
}
