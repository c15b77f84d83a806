// Package condition implements the StepCondition variants from spec.md §3:
// a transformation of the solution vector applied at specific
// times between time steps. AmericanCondition/ShoutCondition are grounded
// on the intrinsic-value replacement described in spec.md §4.G and
// referenced by original_source/ql/Pricers/americanoption.hpp's
// AmericanCondition; DividendCondition is grounded directly on
// original_source/ql/Pricers/dividendoption.hpp's movePricesBeforeExDiv.
package condition

import "github.com/halvard-quant/fdpricer/fd"

// StepCondition is the capability spec.md §6 requires: transform the
// solution vector at time t, returning the result.
type StepCondition interface {
	ApplyTo(v fd.Array, t float64) (fd.Array, error)
}

// Null is the identity step condition, used for European payoffs that carry
// no intermediate exercise or dividend behaviour.
type Null struct{}

// ApplyTo returns v unchanged.
func (Null) ApplyTo(v fd.Array, t float64) (fd.Array, error) {
	return v, nil
}

// Composite applies a sequence of conditions in order, e.g. an American
// condition combined with a discrete dividend schedule.
type Composite struct {
	Conditions []StepCondition
}

// ApplyTo runs every condition in sequence, each seeing the previous one's
// output.
func (c Composite) ApplyTo(v fd.Array, t float64) (fd.Array, error) {
	var err error
	for _, cond := range c.Conditions {
		v, err = cond.ApplyTo(v, t)
		if err != nil {
			return fd.Array{}, err
		}
	}
	return v, nil
}
