// Package termstructure adapts yield curves to the TermStructure
// interface the PDE pricing core consumes (spec.md §6): discount(date),
// zeroRate(date), forward(date), each failing with fd.ErrOutOfRange
// unless extrapolation is requested.
package termstructure

import (
	"fmt"
	"math"
	"time"

	"github.com/halvard-quant/fdpricer/fd"
	"github.com/halvard-quant/fdpricer/marketdata/quote"
	"github.com/halvard-quant/fdpricer/swap/curve"
	"github.com/halvard-quant/fdpricer/utils"
)

// TermStructure is the external collaborator the pricing engine consumes
// to discount cashflows and to drive the Black-Scholes operator's r/q.
type TermStructure interface {
	// Discount returns the discount factor to date t.
	Discount(t time.Time) (float64, error)
	// ZeroRate returns the continuously-compounded zero rate to date t.
	ZeroRate(t time.Time) (float64, error)
	// Forward returns the instantaneous forward rate at date t.
	Forward(t time.Time) (float64, error)
	// ReferenceDate is the curve's valuation (settlement) date.
	ReferenceDate() time.Time
	// Version reports the underlying observable's version, for cache
	// invalidation (marketdata/quote's dirty-flag design).
	Version() uint64
}

// maxExtrapolationYears bounds how far past the reference date a Flat curve will
// extrapolate without complaint; beyond it callers must pass
// allowExtrapolation.
const maxExtrapolationYears = 100.0

// Flat is a constant zero-rate curve driven by a single versioned Quote,
// the simplest TermStructure implementation. pricing.Engine does not use
// it: the engine reads flat rate and dividend yield straight from its
// MarketData quotes.
type Flat struct {
	referenceDate      time.Time
	dayCount           string
	rate               *quote.Quote
	allowExtrapolation bool
}

// NewFlat builds a Flat curve over rate, continuously compounded,
// act/365 from referenceDate.
func NewFlat(referenceDate time.Time, rate *quote.Quote) *Flat {
	return &Flat{referenceDate: referenceDate, dayCount: "ACT/365", rate: rate}
}

// WithExtrapolation returns a copy of f that never raises ErrOutOfRange.
func (f *Flat) WithExtrapolation() *Flat {
	out := *f
	out.allowExtrapolation = true
	return &out
}

func (f *Flat) yearFraction(t time.Time) (float64, error) {
	yf := utils.YearFraction(f.referenceDate, t, f.dayCount)
	if yf < 0 && !f.allowExtrapolation {
		return 0, fmt.Errorf("%w: date %s precedes reference date %s", fd.ErrOutOfRange, t, f.referenceDate)
	}
	if yf > maxExtrapolationYears && !f.allowExtrapolation {
		return 0, fmt.Errorf("%w: date %s exceeds extrapolation horizon", fd.ErrOutOfRange, t)
	}
	return yf, nil
}

// Discount returns exp(-r*t).
func (f *Flat) Discount(t time.Time) (float64, error) {
	yf, err := f.yearFraction(t)
	if err != nil {
		return 0, err
	}
	r := f.rate.Value()
	return discountFactor(r, yf), nil
}

func discountFactor(r, t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-r * t)
}

// ZeroRate returns the (constant) zero rate, irrespective of t, once t's
// range has been validated.
func (f *Flat) ZeroRate(t time.Time) (float64, error) {
	if _, err := f.yearFraction(t); err != nil {
		return 0, err
	}
	return f.rate.Value(), nil
}

// Forward returns the instantaneous forward rate, which for a flat curve
// equals the zero rate.
func (f *Flat) Forward(t time.Time) (float64, error) {
	return f.ZeroRate(t)
}

// ReferenceDate returns the curve's valuation date.
func (f *Flat) ReferenceDate() time.Time {
	return f.referenceDate
}

// Version reports the underlying Quote's version.
func (f *Flat) Version() uint64 {
	return f.rate.Version()
}

// FromSwapCurve adapts an already-bootstrapped swap/curve.Curve (OIS or
// IBOR discount curve) to TermStructure, so the option engine can
// discount against the same curves the swap desk already builds.
type FromSwapCurve struct {
	curve              *curve.Curve
	allowExtrapolation bool
	version            uint64
}

// NewFromSwapCurve wraps c. version should be bumped by the caller
// whenever c is rebuilt from fresh quotes (swap/curve.Curve itself has
// no built-in versioning).
func NewFromSwapCurve(c *curve.Curve, version uint64) *FromSwapCurve {
	return &FromSwapCurve{curve: c, version: version}
}

// WithExtrapolation returns a copy that never raises ErrOutOfRange.
func (f *FromSwapCurve) WithExtrapolation() *FromSwapCurve {
	out := *f
	out.allowExtrapolation = true
	return &out
}

func (f *FromSwapCurve) checkRange(t time.Time) error {
	if f.allowExtrapolation {
		return nil
	}
	last := f.curve.Settlement()
	for _, d := range f.curve.PaymentDates() {
		if d.After(last) {
			last = d
		}
	}
	if t.Before(f.curve.Settlement()) || t.After(last) {
		return fmt.Errorf("%w: date %s outside curve domain [%s, %s]", fd.ErrOutOfRange, t, f.curve.Settlement(), last)
	}
	return nil
}

// Discount returns the curve's discount factor at t.
func (f *FromSwapCurve) Discount(t time.Time) (float64, error) {
	if err := f.checkRange(t); err != nil {
		return 0, err
	}
	return f.curve.DF(t), nil
}

// ZeroRate returns the curve's zero rate at t, expressed as a decimal
// (the underlying curve reports it scaled by 100).
func (f *FromSwapCurve) ZeroRate(t time.Time) (float64, error) {
	if err := f.checkRange(t); err != nil {
		return 0, err
	}
	return f.curve.ZeroRateAt(t) / 100.0, nil
}

// Forward returns the curve's instantaneous forward rate at t, estimated
// by bumping t by one day and differencing discount factors.
func (f *FromSwapCurve) Forward(t time.Time) (float64, error) {
	if err := f.checkRange(t); err != nil {
		return 0, err
	}
	const bump = 24 * time.Hour
	df0 := f.curve.DF(t)
	df1 := f.curve.DF(t.Add(bump))
	dt := utils.YearFraction(t, t.Add(bump), f.curve.DayCount())
	if dt == 0 || df1 <= 0 {
		return f.curve.ZeroRateAt(t) / 100.0, nil
	}
	return -math.Log(df1/df0) / dt, nil
}

// ReferenceDate returns the curve's settlement date.
func (f *FromSwapCurve) ReferenceDate() time.Time {
	return f.curve.Settlement()
}

// Version reports the version stamped at construction time.
func (f *FromSwapCurve) Version() uint64 {
	return f.version
}
