package fd

import (
	"fmt"
	"math"
)

// thomasEpsilon is the pivot-magnitude floor below which the Thomas sweep
// declares the system singular rather than dividing by (near) zero.
const thomasEpsilon = 1e-14

// TridiagonalOperator is a linear operator on Arrays of fixed size n,
// represented by three diagonals: low[1..n-1], diag[0..n-1], up[0..n-1].
// It is the common representation shared by every differential operator and
// every scheme's cached implicit/explicit matrix.
type TridiagonalOperator struct {
	low, diag, up []float64
	timeDependent bool
	// setTimeFn, when non-nil, refreshes diag/low/up for time t. Concrete
	// time-dependent operators (e.g. BlackScholesOperator with a term
	// structure rate) install this hook; the default is a no-op.
	setTimeFn func(op *TridiagonalOperator, t float64)
}

// NewTridiagonalOperator returns an operator of size n with all diagonals
// zeroed.
func NewTridiagonalOperator(n int) TridiagonalOperator {
	return TridiagonalOperator{
		low:  make([]float64, n),
		diag: make([]float64, n),
		up:   make([]float64, n),
	}
}

// Identity returns the n×n identity operator.
func Identity(n int) TridiagonalOperator {
	op := NewTridiagonalOperator(n)
	for i := range op.diag {
		op.diag[i] = 1
	}
	return op
}

// Size returns n.
func (op TridiagonalOperator) Size() int {
	return len(op.diag)
}

// SetFirstRow sets row 0 to (diag, up).
func (op *TridiagonalOperator) SetFirstRow(diag, up float64) {
	op.diag[0] = diag
	op.up[0] = up
}

// SetLastRow sets the last row to (low, diag).
func (op *TridiagonalOperator) SetLastRow(low, diag float64) {
	n := op.Size()
	op.low[n-1] = low
	op.diag[n-1] = diag
}

// SetMidRows uniformly fills every interior row (1..n-2) with (low, diag, up).
func (op *TridiagonalOperator) SetMidRows(low, diag, up float64) {
	for i := 1; i < op.Size()-1; i++ {
		op.low[i] = low
		op.diag[i] = diag
		op.up[i] = up
	}
}

// SetMidRow sets a single interior row i to (low, diag, up).
func (op *TridiagonalOperator) SetMidRow(i int, low, diag, up float64) {
	op.low[i] = low
	op.diag[i] = diag
	op.up[i] = up
}

// SetTimeDependent marks the operator as needing setTimeFn invoked every
// step rather than only once.
func (op *TridiagonalOperator) SetTimeDependent(fn func(op *TridiagonalOperator, t float64)) {
	op.timeDependent = true
	op.setTimeFn = fn
}

// IsTimeDependent reports whether the scheme must refresh cached matrices
// built from this operator on every step.
func (op TridiagonalOperator) IsTimeDependent() bool {
	return op.timeDependent
}

// SetTime refreshes the operator's coefficients for time t. A no-op unless
// SetTimeDependent installed a hook.
func (op *TridiagonalOperator) SetTime(t float64) {
	if op.setTimeFn != nil {
		op.setTimeFn(op, t)
	}
}

// ApplyTo computes M·a in O(n).
func (op TridiagonalOperator) ApplyTo(a Array) (Array, error) {
	n := op.Size()
	if a.Size() != n {
		return Array{}, fmt.Errorf("%w: operator size %d, array size %d", ErrSizeMismatch, n, a.Size())
	}
	out := NewArray(n)
	v := a.Values()
	out.data[0] = op.diag[0]*v[0] + op.up[0]*v[1]
	for i := 1; i < n-1; i++ {
		out.data[i] = op.low[i]*v[i-1] + op.diag[i]*v[i] + op.up[i]*v[i+1]
	}
	out.data[n-1] = op.low[n-1]*v[n-2] + op.diag[n-1]*v[n-1]
	return out, nil
}

// SolveFor computes x such that M·x = a via the Thomas algorithm
// (forward-elimination, back-substitution), O(n).
func (op TridiagonalOperator) SolveFor(a Array) (Array, error) {
	n := op.Size()
	if a.Size() != n {
		return Array{}, fmt.Errorf("%w: operator size %d, array size %d", ErrSizeMismatch, n, a.Size())
	}
	if n == 0 {
		return Array{}, nil
	}

	cPrime := make([]float64, n)
	dPrime := make([]float64, n)
	rhs := a.Values()

	pivot := op.diag[0]
	if math.Abs(pivot) < thomasEpsilon {
		return Array{}, fmt.Errorf("%w: zero pivot at row 0", ErrSingular)
	}
	cPrime[0] = op.up[0] / pivot
	dPrime[0] = rhs[0] / pivot

	for i := 1; i < n; i++ {
		pivot = op.diag[i] - op.low[i]*cPrime[i-1]
		if math.Abs(pivot) < thomasEpsilon {
			return Array{}, fmt.Errorf("%w: zero pivot at row %d", ErrSingular, i)
		}
		if i < n-1 {
			cPrime[i] = op.up[i] / pivot
		}
		dPrime[i] = (rhs[i] - op.low[i]*dPrime[i-1]) / pivot
	}

	out := NewArray(n)
	out.data[n-1] = dPrime[n-1]
	for i := n - 2; i >= 0; i-- {
		out.data[i] = dPrime[i] - cPrime[i]*out.data[i+1]
	}
	return out, nil
}

// Scale returns k·M as a fresh operator.
func (op TridiagonalOperator) Scale(k float64) TridiagonalOperator {
	out := NewTridiagonalOperator(op.Size())
	for i := range op.diag {
		out.low[i] = op.low[i] * k
		out.diag[i] = op.diag[i] * k
		out.up[i] = op.up[i] * k
	}
	return out
}

// Add returns M+N. Both operators must share size.
func (op TridiagonalOperator) Add(other TridiagonalOperator) (TridiagonalOperator, error) {
	if op.Size() != other.Size() {
		return TridiagonalOperator{}, fmt.Errorf("%w: %d vs %d", ErrSizeMismatch, op.Size(), other.Size())
	}
	out := NewTridiagonalOperator(op.Size())
	for i := range op.diag {
		out.low[i] = op.low[i] + other.low[i]
		out.diag[i] = op.diag[i] + other.diag[i]
		out.up[i] = op.up[i] + other.up[i]
	}
	return out, nil
}

// Sub returns M-N.
func (op TridiagonalOperator) Sub(other TridiagonalOperator) (TridiagonalOperator, error) {
	return op.Add(other.Scale(-1))
}

// AddIdentity returns α·I + β·M without an intermediate temporary,
// per spec.md §9 ("operator algebra without temporaries"). The schemes
// build their cached E/M matrices with the in-place variant,
// AddIdentityInPlace.
func (op TridiagonalOperator) AddIdentity(alpha, beta float64) TridiagonalOperator {
	out := NewTridiagonalOperator(op.Size())
	for i := range op.diag {
		out.low[i] = beta * op.low[i]
		out.diag[i] = alpha + beta*op.diag[i]
		out.up[i] = beta * op.up[i]
	}
	return out
}

// AddIdentityInPlace overwrites the receiver's diagonals with α·I + β·src,
// avoiding an allocation. Used by time-dependent schemes that must rebuild
// their cached matrix every step.
func (op *TridiagonalOperator) AddIdentityInPlace(alpha, beta float64, src TridiagonalOperator) {
	if op.Size() != src.Size() {
		*op = NewTridiagonalOperator(src.Size())
	}
	for i := range src.diag {
		op.low[i] = beta * src.low[i]
		op.diag[i] = alpha + beta*src.diag[i]
		op.up[i] = beta * src.up[i]
	}
}

// Rows exposes the raw diagonals, for tests.
func (op *TridiagonalOperator) Rows() (low, diag, up []float64) {
	return op.low, op.diag, op.up
}

// Clone returns a deep copy, so that boundary-row rewrites on the copy never
// alias the receiver's backing arrays.
func (op TridiagonalOperator) Clone() TridiagonalOperator {
	out := NewTridiagonalOperator(op.Size())
	copy(out.low, op.low)
	copy(out.diag, op.diag)
	copy(out.up, op.up)
	out.timeDependent = op.timeDependent
	out.setTimeFn = op.setTimeFn
	return out
}
