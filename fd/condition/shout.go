package condition

import "github.com/halvard-quant/fdpricer/fd"

// Shout replaces v[i] by max(v[i], CompoundFactor*Intrinsic[i]): the holder
// may "shout" at this stopping time to lock in the current intrinsic value,
// which then continues to earn time value (via CompoundFactor, the
// forward-compounding of the locked amount from the shout date to expiry)
// for the remainder of the option's life.
type Shout struct {
	Intrinsic      fd.Array
	CompoundFactor float64
}

// NewShout builds a shout step condition. CompoundFactor forward-compounds
// the locked-in intrinsic value from the shout date to expiry (1.0 for a
// shout at the stopping time nearest expiry).
func NewShout(intrinsic fd.Array, compoundFactor float64) Shout {
	return Shout{Intrinsic: intrinsic, CompoundFactor: compoundFactor}
}

// ApplyTo enforces v[i] >= CompoundFactor*Intrinsic[i].
func (c Shout) ApplyTo(v fd.Array, t float64) (fd.Array, error) {
	if v.Size() != c.Intrinsic.Size() {
		return fd.Array{}, fd.ErrSizeMismatch
	}
	out := fd.NewArray(v.Size())
	for i := 0; i < v.Size(); i++ {
		floor := c.CompoundFactor * c.Intrinsic.At(i)
		vi := v.At(i)
		if floor > vi {
			out.SetInPlace(i, floor)
		} else {
			out.SetInPlace(i, vi)
		}
	}
	return out, nil
}
