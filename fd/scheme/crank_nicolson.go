package scheme

import "github.com/halvard-quant/fdpricer/fd"

// CrankNicolson is second-order in time but may oscillate near non-smooth
// payoffs unless preceded by a few BackwardEuler steps (Rannacher
// smoothing, orchestrated by the pricing engine, not here). Grounded on
// QuantLib's CrankNicolson as a θ=1/2 mixed scheme: one BackwardEuler(dt/2)
// solve composed with one ForwardEuler(dt/2) apply.
type CrankNicolson struct {
	d   *fd.TridiagonalOperator
	bcs fd.BoundaryConditionSet
	e   fd.TridiagonalOperator // I - dt/2*D
	m   fd.TridiagonalOperator // I + dt/2*D
	dt  float64
}

// NewCrankNicolson builds a CrankNicolson scheme over operator d.
func NewCrankNicolson(d *fd.TridiagonalOperator, bcs fd.BoundaryConditionSet) *CrankNicolson {
	s := &CrankNicolson{d: d, bcs: bcs}
	s.e = fd.Identity(d.Size())
	s.m = fd.Identity(d.Size())
	return s
}

// SetStep caches E = I - dt/2*D and M = I + dt/2*D.
func (s *CrankNicolson) SetStep(dt float64) {
	s.dt = dt
	half := dt / 2
	s.e.AddIdentityInPlace(1, -half, *s.d)
	s.m.AddIdentityInPlace(1, half, *s.d)
}

// Step computes a <- M^-1 * (E*a), refreshing D, E and M first if D is
// time-dependent.
func (s *CrankNicolson) Step(a fd.Array, t float64) (fd.Array, error) {
	if s.dt == 0 {
		return a, nil
	}
	if s.d.IsTimeDependent() {
		s.d.SetTime(t)
		half := s.dt / 2
		s.e.AddIdentityInPlace(1, -half, *s.d)
		s.m.AddIdentityInPlace(1, half, *s.d)
	}
	explicitStep, err := applyOp(s.e, s.bcs, a)
	if err != nil {
		return fd.Array{}, err
	}
	out, err := solveOp(s.m, s.bcs, explicitStep)
	if err != nil {
		return fd.Array{}, err
	}
	if err := checkFinite(out); err != nil {
		return fd.Array{}, err
	}
	return out, nil
}
