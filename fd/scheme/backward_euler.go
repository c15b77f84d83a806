package scheme

import "github.com/halvard-quant/fdpricer/fd"

// BackwardEuler is unconditionally stable, first-order in time.
type BackwardEuler struct {
	d   *fd.TridiagonalOperator
	bcs fd.BoundaryConditionSet
	m   fd.TridiagonalOperator // cached implicit part: I + dt*D
	dt  float64
}

// NewBackwardEuler builds a BackwardEuler scheme over operator d.
func NewBackwardEuler(d *fd.TridiagonalOperator, bcs fd.BoundaryConditionSet) *BackwardEuler {
	s := &BackwardEuler{d: d, bcs: bcs}
	s.m = fd.Identity(d.Size())
	return s
}

// SetStep caches M = I + dt*D. With dt=0, Step returns its input
// unchanged (spec.md §9).
func (s *BackwardEuler) SetStep(dt float64) {
	s.dt = dt
	s.m.AddIdentityInPlace(1, dt, *s.d)
}

// Step computes a <- M^-1 * a, refreshing D and M first if D is
// time-dependent.
func (s *BackwardEuler) Step(a fd.Array, t float64) (fd.Array, error) {
	if s.dt == 0 {
		return a, nil
	}
	if s.d.IsTimeDependent() {
		s.d.SetTime(t)
		s.m.AddIdentityInPlace(1, s.dt, *s.d)
	}
	out, err := solveOp(s.m, s.bcs, a)
	if err != nil {
		return fd.Array{}, err
	}
	if err := checkFinite(out); err != nil {
		return fd.Array{}, err
	}
	return out, nil
}
