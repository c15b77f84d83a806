package fd

// Side identifies which end of the grid a BoundaryCondition applies to.
type Side int

const (
	// Lower is the low-index (far out-of-money / low price) boundary.
	Lower Side = iota
	// Upper is the high-index boundary.
	Upper
)

// BoundaryConditionKind enumerates the supported boundary variants.
type BoundaryConditionKind int

const (
	// KindNone leaves the operator and vector untouched.
	KindNone BoundaryConditionKind = iota
	// KindNeumann rewrites the boundary row to the first difference
	// (-1,+1)/h, the European-payoff default. The condition's Value is
	// not used: no non-zero derivative value is imposed.
	KindNeumann
	// KindDirichlet fixes the boundary value itself.
	KindDirichlet
)

// BoundaryCondition is polymorphic over {Neumann, Dirichlet, None}. Each
// exposes the four mutators from spec.md §4.C: applied before and after
// ApplyTo, and before and after SolveFor. The "before" mutators rewrite the
// operator in place; the "after" mutators return an adjusted copy of the
// vector. Applying the lower and
// upper condition is commutative since each only touches its own row.
type BoundaryCondition struct {
	Kind  BoundaryConditionKind
	Side  Side
	Value float64
	// Step is the grid spacing at the relevant boundary, needed to scale
	// the Neumann row (-1,+1)/h.
	Step float64
}

// NewNeumann builds a Neumann condition with grid spacing step. value is
// stored in Value but the Neumann mutators ignore it.
func NewNeumann(side Side, step, value float64) BoundaryCondition {
	return BoundaryCondition{Kind: KindNeumann, Side: side, Step: step, Value: value}
}

// NewDirichlet builds a fixed-value condition.
func NewDirichlet(side Side, value float64) BoundaryCondition {
	return BoundaryCondition{Kind: KindDirichlet, Side: side, Value: value}
}

// ApplyBeforeApplying rewrites the operator's boundary row before ApplyTo.
func (bc BoundaryCondition) ApplyBeforeApplying(op *TridiagonalOperator) {
	n := op.Size()
	switch bc.Kind {
	case KindNeumann:
		h := bc.Step
		if bc.Side == Lower {
			op.SetFirstRow(-1/h, 1/h)
		} else {
			op.SetLastRow(-1/h, 1/h)
		}
	case KindDirichlet:
		if bc.Side == Lower {
			op.SetFirstRow(1, 0)
		} else {
			op.SetLastRow(0, 1)
		}
	case KindNone:
		_ = n
	}
}

// ApplyAfterApplying adjusts the vector after ApplyTo. Neumann's row
// encodes the condition directly in the matrix, so the "after" step is a
// no-op for it; Dirichlet overwrites the boundary entry with its value so
// that M·a correctly evaluates to Value at that row.
func (bc BoundaryCondition) ApplyAfterApplying(a Array) Array {
	switch bc.Kind {
	case KindDirichlet:
		if bc.Side == Lower {
			return a.Set(0, bc.Value)
		}
		return a.Set(a.Size()-1, bc.Value)
	default:
		return a
	}
}

// ApplyBeforeSolving rewrites the operator's boundary row before SolveFor.
// Identical in structure to ApplyBeforeApplying: the row overwrite is
// independent of whether the operator is about to be applied or inverted.
func (bc BoundaryCondition) ApplyBeforeSolving(op *TridiagonalOperator) {
	bc.ApplyBeforeApplying(op)
}

// ApplyAfterSolving adjusts the solved vector: a Dirichlet condition
// overwrites its boundary entry with Value.
func (bc BoundaryCondition) ApplyAfterSolving(a Array) Array {
	switch bc.Kind {
	case KindDirichlet:
		if bc.Side == Lower {
			return a.Set(0, bc.Value)
		}
		return a.Set(a.Size()-1, bc.Value)
	default:
		return a
	}
}

// BoundaryConditionSet is the ordered {lower, upper} pair of conditions
// applied to an operator/vector around every ApplyTo/SolveFor.
type BoundaryConditionSet struct {
	Lower, Upper BoundaryCondition
}

// NewBoundaryConditionSet pairs a lower and upper condition.
func NewBoundaryConditionSet(lower, upper BoundaryCondition) BoundaryConditionSet {
	return BoundaryConditionSet{Lower: lower, Upper: upper}
}

// ApplyBeforeApplying rewrites both boundary rows of op.
func (s BoundaryConditionSet) ApplyBeforeApplying(op *TridiagonalOperator) {
	s.Lower.ApplyBeforeApplying(op)
	s.Upper.ApplyBeforeApplying(op)
}

// ApplyAfterApplying adjusts both boundary entries of a.
func (s BoundaryConditionSet) ApplyAfterApplying(a Array) Array {
	a = s.Lower.ApplyAfterApplying(a)
	a = s.Upper.ApplyAfterApplying(a)
	return a
}

// ApplyBeforeSolving rewrites both boundary rows of op ahead of a solve.
func (s BoundaryConditionSet) ApplyBeforeSolving(op *TridiagonalOperator) {
	s.Lower.ApplyBeforeSolving(op)
	s.Upper.ApplyBeforeSolving(op)
}

// ApplyAfterSolving adjusts both boundary entries of the solved vector.
func (s BoundaryConditionSet) ApplyAfterSolving(a Array) Array {
	a = s.Lower.ApplyAfterSolving(a)
	a = s.Upper.ApplyAfterSolving(a)
	return a
}
