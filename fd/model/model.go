// Package model implements the FiniteDifferenceModel rollback driver from
// spec.md §4.F, grounded verbatim on QuantLib's
// ql/FiniteDifferences/finitedifferencemodel.hpp: it knows nothing about
// Black-Scholes, only how to advance a scheme, stop at prescribed times and
// apply a step condition.
package model

import (
	"fmt"
	"sort"

	"github.com/halvard-quant/fdpricer/fd"
	"github.com/halvard-quant/fdpricer/fd/condition"
	"github.com/halvard-quant/fdpricer/fd/scheme"
)

// timeEpsilon absorbs floating-point drift when comparing a stopping time
// against a step boundary.
const timeEpsilon = 1e-10

// FiniteDifferenceModel walks time backward from t_from to t_to, invoking
// the scheme at every uniform sub-interval, stopping to apply condition at
// each stopping time exactly once.
type FiniteDifferenceModel struct {
	scheme        scheme.Scheme
	stoppingTimes []float64
}

// New builds a FiniteDifferenceModel over s, with stoppingTimes sorted and
// deduplicated internally. Each stopping time must be visited exactly once
// during a rollback (spec.md §3).
func New(s scheme.Scheme, stoppingTimes []float64) *FiniteDifferenceModel {
	sorted := append([]float64(nil), stoppingTimes...)
	sort.Float64s(sorted)
	unique := sorted[:0]
	for _, st := range sorted {
		if len(unique) == 0 || st != unique[len(unique)-1] {
			unique = append(unique, st)
		}
	}
	return &FiniteDifferenceModel{scheme: s, stoppingTimes: unique}
}

// Rollback walks v from tFrom to tTo over steps uniform sub-intervals,
// applying cond after every scheme step (including the "baby steps" either
// side of an interior stopping time). tFrom must be later than tTo.
func (m *FiniteDifferenceModel) Rollback(v fd.Array, tFrom, tTo float64, steps int, cond condition.StepCondition) (fd.Array, error) {
	if tFrom <= tTo {
		return fd.Array{}, fmt.Errorf("%w: rollback requires tFrom > tTo, got %v <= %v", fd.ErrNotImplemented, tFrom, tTo)
	}
	if steps <= 0 {
		return fd.Array{}, fmt.Errorf("%w: rollback requires at least one step", fd.ErrNotImplemented)
	}
	if cond == nil {
		cond = condition.Null{}
	}

	dt := (tFrom - tTo) / float64(steps)
	m.scheme.SetStep(dt)

	t := tFrom
	var err error
	for i := 0; i < steps; i++ {
		stopIdx := m.findStoppingTime(t, dt)
		if stopIdx < 0 {
			v, err = m.scheme.Step(v, t)
			if err != nil {
				return fd.Array{}, err
			}
			v, err = cond.ApplyTo(v, t-dt)
			if err != nil {
				return fd.Array{}, err
			}
		} else {
			s := m.stoppingTimes[stopIdx]

			dt1 := t - s
			m.scheme.SetStep(dt1)
			v, err = m.scheme.Step(v, t)
			if err != nil {
				return fd.Array{}, err
			}
			v, err = cond.ApplyTo(v, s)
			if err != nil {
				return fd.Array{}, err
			}

			dt2 := s - (t - dt)
			m.scheme.SetStep(dt2)
			v, err = m.scheme.Step(v, s)
			if err != nil {
				return fd.Array{}, err
			}
			v, err = cond.ApplyTo(v, t-dt)
			if err != nil {
				return fd.Array{}, err
			}

			m.scheme.SetStep(dt)
		}
		t -= dt
	}
	return v, nil
}

// findStoppingTime returns the index of the (single) stopping time that
// falls in (t-dt, t], or -1 if none does. Per spec.md §4.F note 4, at most
// one stopping time per outer interval is assumed; callers choose the step
// count to guarantee this.
func (m *FiniteDifferenceModel) findStoppingTime(t, dt float64) int {
	lower, upper := t-dt, t
	for i, s := range m.stoppingTimes {
		if s > lower+timeEpsilon && s <= upper+timeEpsilon {
			return i
		}
	}
	return -1
}
