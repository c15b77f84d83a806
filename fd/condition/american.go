package condition

import "github.com/halvard-quant/fdpricer/fd"

// American replaces v[i] by max(v[i], intrinsic[i]) at every step, the
// early-exercise condition for American-style options. Intrinsic is the
// payoff evaluated once at each grid point by the engine at construction
// time (spec.md §3: "AmericanCondition(intrinsic value)").
type American struct {
	Intrinsic fd.Array
}

// NewAmerican builds an American step condition from a precomputed
// intrinsic-value vector; Intrinsic must have the same size as the grid the
// rollback operates on.
func NewAmerican(intrinsic fd.Array) American {
	return American{Intrinsic: intrinsic}
}

// ApplyTo enforces v[i] >= Intrinsic[i] at every grid point.
func (c American) ApplyTo(v fd.Array, t float64) (fd.Array, error) {
	if v.Size() != c.Intrinsic.Size() {
		return fd.Array{}, fd.ErrSizeMismatch
	}
	out := fd.NewArray(v.Size())
	for i := 0; i < v.Size(); i++ {
		vi, floor := v.At(i), c.Intrinsic.At(i)
		if floor > vi {
			out.SetInPlace(i, floor)
		} else {
			out.SetInPlace(i, vi)
		}
	}
	return out, nil
}
