package condition

import (
	"math"

	"github.com/halvard-quant/fdpricer/fd"
)

// AtTimeCondition gates Inner so it only fires when the rollback's
// current time matches Target within Eps, passing the vector through
// unchanged otherwise. American's early-exercise floor is meant to fire
// on every step, but a Dividend or Shout condition is scoped to its own
// stopping time — without this gate it would re-apply itself every step
// of the rollback instead of only at the instant it belongs to.
type AtTimeCondition struct {
	Target float64
	Eps    float64
	Inner  StepCondition
}

// AtTime builds an AtTimeCondition.
func AtTime(target, eps float64, inner StepCondition) AtTimeCondition {
	return AtTimeCondition{Target: target, Eps: eps, Inner: inner}
}

// ApplyTo runs Inner only when t is within Eps of Target.
func (c AtTimeCondition) ApplyTo(v fd.Array, t float64) (fd.Array, error) {
	if math.Abs(t-c.Target) > c.Eps {
		return v, nil
	}
	return c.Inner.ApplyTo(v, t)
}
