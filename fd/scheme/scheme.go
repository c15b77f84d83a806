// Package scheme implements the three time-stepping strategies from
// spec.md §4.E: ForwardEuler, BackwardEuler, CrankNicolson. Each is a small
// state machine caching the fixed matrices it needs to advance one step,
// grounded verbatim on QuantLib's ql/FiniteDifferences/forwardeuler.hpp,
// backwardeuler.hpp and cranknicolson.hpp (the latter via its θ=1/2
// mixed-scheme composition of backward+forward Euler).
package scheme

import (
	"github.com/halvard-quant/fdpricer/fd"
)

// Scheme advances a solution vector by one time step given a (possibly
// time-dependent) differential operator, per spec.md §4.E/§6.
type Scheme interface {
	// SetStep installs the step size for subsequent Step calls, rebuilding
	// any cached matrices. Δt=0 is a no-op step (spec.md §9 open question).
	SetStep(dt float64)
	// Step returns a advanced from time t to t-Δt; a itself is not
	// modified. The order within a step is fixed per spec.md §5: refresh operator if
	// time-dependent, apply boundary conditions, solve/apply, reapply
	// boundary conditions to the vector.
	Step(a fd.Array, t float64) (fd.Array, error)
}

// applyOp runs M (or E) on a using op/bcs, in the fixed order from
// spec.md §5.
func applyOp(op fd.TridiagonalOperator, bcs fd.BoundaryConditionSet, a fd.Array) (fd.Array, error) {
	op = op.Clone()
	bcs.ApplyBeforeApplying(&op)
	out, err := op.ApplyTo(a)
	if err != nil {
		return fd.Array{}, err
	}
	return bcs.ApplyAfterApplying(out), nil
}

func solveOp(op fd.TridiagonalOperator, bcs fd.BoundaryConditionSet, a fd.Array) (fd.Array, error) {
	op = op.Clone()
	bcs.ApplyBeforeSolving(&op)
	out, err := op.SolveFor(a)
	if err != nil {
		return fd.Array{}, err
	}
	return bcs.ApplyAfterSolving(out), nil
}

func checkFinite(a fd.Array) error {
	if !a.IsFinite() {
		return fd.ErrNumericalFailure
	}
	return nil
}
