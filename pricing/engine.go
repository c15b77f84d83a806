// Package pricing wraps the fd core into a usable option-pricing
// engine: it builds the grid, the initial payoff vector, the
// Black-Scholes operator, boundary conditions and stopping times, drives
// the rollback (with optional Rannacher smoothing), and extracts NPV and
// greeks, per spec.md §4.G.
package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/halvard-quant/fdpricer/fd"
	"github.com/halvard-quant/fdpricer/fd/condition"
	"github.com/halvard-quant/fdpricer/fd/model"
	"github.com/halvard-quant/fdpricer/fd/operator"
	"github.com/halvard-quant/fdpricer/fd/scheme"
	"github.com/halvard-quant/fdpricer/marketdata/quote"
	"github.com/halvard-quant/fdpricer/pricing/config"
	"github.com/halvard-quant/fdpricer/pricing/metrics"
	"github.com/halvard-quant/fdpricer/pricing/payoff"
)

// MarketData bundles the versioned observables a pricing call consumes:
// spot, short rate, dividend yield and volatility. Any change to one of
// these (detected via its Version()) invalidates a cached NPV, per
// spec.md §9's version-counter design.
type MarketData struct {
	Spot  *quote.Quote
	Rate  *quote.Quote
	Yield *quote.Quote
	Vol   *quote.Quote
}

// VersionKey returns a string capturing every quote's current version,
// suitable as part of a pricing/cache lookup key.
func (m MarketData) VersionKey() string {
	return fmt.Sprintf("%d:%d:%d:%d", m.Spot.Version(), m.Rate.Version(), m.Yield.Version(), m.Vol.Version())
}

func (m MarketData) snapshot() marketSnapshot {
	return marketSnapshot{
		spot:  m.Spot.Value(),
		rate:  m.Rate.Value(),
		yield: m.Yield.Value(),
		vol:   m.Vol.Value(),
	}
}

// marketSnapshot is the plain-float view of MarketData a single solve
// operates on, so that concurrent greek computations never touch the
// shared *quote.Quote values from more than one goroutine.
type marketSnapshot struct {
	spot, rate, yield, vol float64
}

// Result holds the price and greeks from a single pricing call, tagged
// with a run ID for log/metric correlation.
type Result struct {
	RunID string
	NPV   float64
	Delta float64
	Gamma float64
	Theta float64
	Rho   float64
	Vega  float64
}

// Engine prices Instruments against MarketData. An Engine holds no
// mutable pricing state of its own — every field is immutable after
// construction — so callers may share one across goroutines, or let
// each goroutine build its own per spec.md §5.
type Engine struct {
	cfg     config.Config
	metrics *metrics.Collector
}

// NewEngine builds an Engine with cfg (use config.DefaultConfig for
// production defaults).
func NewEngine(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// WithMetrics returns a copy of e that reports to collector.
func (e *Engine) WithMetrics(collector *metrics.Collector) *Engine {
	out := *e
	out.metrics = collector
	return &out
}

// solveOutput is the raw rollback result a single solve produces: the
// NPV plus the grid and solution vector Delta/Gamma are read off.
type solveOutput struct {
	npv  float64
	grid fd.Grid
	v    fd.Array
}

// Price runs a single rollback and returns NPV, Delta and Gamma (which
// come directly off the rollback grid, no extra solves needed). Use
// PriceWithGreeks for Theta/Rho/Vega, which each require a full
// re-pricing.
func (e *Engine) Price(ctx context.Context, instrument Instrument, market MarketData) (Result, error) {
	start := time.Now()
	defer e.metrics.ObservePricingDuration(start)

	out, err := e.solve(ctx, instrument, market.snapshot())
	if err != nil {
		return Result{}, err
	}
	delta, gamma := greeksFromGrid(out.grid, out.v, market.Spot.Value())
	return Result{
		RunID: uuid.NewString(),
		NPV:   out.npv,
		Delta: delta,
		Gamma: gamma,
	}, nil
}

// PriceWithGreeks computes NPV, Delta, Gamma, Theta, Rho and Vega. The
// base price and the five bumped re-pricings needed for Theta/Rho/Vega
// run concurrently via errgroup, each on a freshly constructed Engine
// instance, matching spec.md §5's "multiple pricings in parallel
// provided each owns its own engine instance" allowance.
func (e *Engine) PriceWithGreeks(ctx context.Context, instrument Instrument, market MarketData) (Result, error) {
	start := time.Now()
	defer e.metrics.ObservePricingDuration(start)

	runID := uuid.NewString()
	snap := market.snapshot()
	cfg := e.cfg

	var base, thetaOut, rhoUp, rhoDown, vegaUp, vegaDown solveOutput

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		eng := NewEngine(cfg).WithMetrics(e.metrics)
		out, err := eng.solve(gctx, instrument, snap)
		if err != nil {
			return err
		}
		base = out
		return nil
	})
	g.Go(func() error {
		bumped := snap
		bumpedInstrument := instrument
		bumpedInstrument.Expiry -= cfg.GreekBumpTime
		if bumpedInstrument.Expiry <= 0 {
			bumpedInstrument.Expiry = instrument.Expiry
		}
		eng := NewEngine(cfg).WithMetrics(e.metrics)
		out, err := eng.solve(gctx, bumpedInstrument, bumped)
		if err != nil {
			return err
		}
		thetaOut = out
		return nil
	})
	g.Go(func() error {
		bumped := snap
		bumped.rate += cfg.GreekBumpRate
		eng := NewEngine(cfg).WithMetrics(e.metrics)
		out, err := eng.solve(gctx, instrument, bumped)
		if err != nil {
			return err
		}
		rhoUp = out
		return nil
	})
	g.Go(func() error {
		bumped := snap
		bumped.rate -= cfg.GreekBumpRate
		eng := NewEngine(cfg).WithMetrics(e.metrics)
		out, err := eng.solve(gctx, instrument, bumped)
		if err != nil {
			return err
		}
		rhoDown = out
		return nil
	})
	g.Go(func() error {
		bumped := snap
		bumped.vol += cfg.GreekBumpVol
		eng := NewEngine(cfg).WithMetrics(e.metrics)
		out, err := eng.solve(gctx, instrument, bumped)
		if err != nil {
			return err
		}
		vegaUp = out
		return nil
	})
	g.Go(func() error {
		bumped := snap
		bumped.vol -= cfg.GreekBumpVol
		eng := NewEngine(cfg).WithMetrics(e.metrics)
		out, err := eng.solve(gctx, instrument, bumped)
		if err != nil {
			return err
		}
		vegaDown = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	delta, gamma := greeksFromGrid(base.grid, base.v, snap.spot)
	theta := (thetaOut.npv - base.npv) / cfg.GreekBumpTime
	rho := (rhoUp.npv - rhoDown.npv) / (2 * cfg.GreekBumpRate)
	vega := (vegaUp.npv - vegaDown.npv) / (2 * cfg.GreekBumpVol)

	return Result{
		RunID: runID,
		NPV:   base.npv,
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Rho:   rho,
		Vega:  vega,
	}, nil
}

// solve builds the grid/operator/scheme/model for instrument under snap
// and rolls back to valuation, returning NPV plus the grid and terminal
// vector so the caller can read Delta/Gamma off it.
func (e *Engine) solve(ctx context.Context, instrument Instrument, snap marketSnapshot) (solveOutput, error) {
	if err := ctx.Err(); err != nil {
		return solveOutput{}, err
	}
	cfg := e.cfg

	T := instrument.Expiry
	sigma := snap.vol
	halfWidth := cfg.GridHalfWidthSigmas * sigma * math.Sqrt(T)
	if halfWidth <= 0 {
		halfWidth = cfg.GridHalfWidthSigmas * 0.01
	}
	center := math.Log(snap.spot)

	grid, err := fd.UniformGrid(center, halfWidth, cfg.DefaultGridPoints)
	if err != nil {
		return solveOutput{}, err
	}

	var pf payoff.Payoff
	if instrument.Type == Put {
		pf = payoff.Put(instrument.Strike)
	} else {
		pf = payoff.Call(instrument.Strike)
	}

	v := fd.NewArray(grid.Size())
	for i := 0; i < grid.Size(); i++ {
		v.SetInPlace(i, pf(math.Exp(grid.At(i))))
	}
	intrinsic := v.Clone()

	bsOp := operator.New(grid, operator.BlackScholesParams{
		Rate:  operator.Constant(snap.rate),
		Yield: operator.Constant(snap.yield),
		Vol:   operator.Constant(snap.vol),
	})

	lowerStep := grid.Step(0)
	upperStep := grid.Step(grid.Size() - 2)
	bcs := fd.NewBoundaryConditionSet(
		fd.NewNeumann(fd.Lower, lowerStep, 0),
		fd.NewNeumann(fd.Upper, upperStep, 0),
	)

	const stopEps = 1e-9
	var stopTimes []float64
	var conds []condition.StepCondition

	for _, d := range instrument.Dividends {
		if d.Time <= 0 || d.Time >= T {
			continue
		}
		st := T - d.Time
		stopTimes = append(stopTimes, st)
		conds = append(conds, condition.AtTime(st, stopEps, condition.NewDividend(grid, d.Amount)))
	}

	switch instrument.Kind {
	case European:
	case American:
		conds = append(conds, condition.NewAmerican(intrinsic))
	case Shout:
		for _, shoutT := range instrument.ShoutTimes {
			if shoutT <= 0 || shoutT >= T {
				continue
			}
			st := T - shoutT
			stopTimes = append(stopTimes, st)
			conds = append(conds, condition.AtTime(st, stopEps, condition.NewShout(intrinsic, 1.0)))
		}
	default:
		return solveOutput{}, fmt.Errorf("%w: %d", ErrUnknownInstrumentKind, instrument.Kind)
	}

	steps := cfg.DefaultTimeSteps
	if len(stopTimes) > steps {
		return solveOutput{}, fmt.Errorf("%w: %d stopping times, %d steps", ErrTooManyStoppingTimes, len(stopTimes), steps)
	}

	var cond condition.StepCondition = condition.Null{}
	if len(conds) > 0 {
		cond = condition.Composite{Conditions: conds}
	}

	rannacher := cfg.RannacherSteps
	if rannacher < 0 {
		rannacher = 0
	}
	if rannacher >= steps {
		rannacher = steps - 1
	}

	dt := T / float64(steps)

	if rannacher > 0 {
		beScheme := scheme.NewBackwardEuler(&bsOp, bcs)
		tMid := T - float64(rannacher)*dt
		m1 := model.New(beScheme, stopTimes)
		v, err = m1.Rollback(v, T, tMid, rannacher, cond)
		if err != nil {
			return solveOutput{}, err
		}
		e.metrics.ObserveRollbackSteps(rannacher)

		cnScheme := scheme.NewCrankNicolson(&bsOp, bcs)
		m2 := model.New(cnScheme, stopTimes)
		remaining := steps - rannacher
		v, err = m2.Rollback(v, tMid, 0, remaining, cond)
		if err != nil {
			return solveOutput{}, err
		}
		e.metrics.ObserveRollbackSteps(remaining)
	} else {
		cnScheme := scheme.NewCrankNicolson(&bsOp, bcs)
		m := model.New(cnScheme, stopTimes)
		v, err = m.Rollback(v, T, 0, steps, cond)
		if err != nil {
			return solveOutput{}, err
		}
		e.metrics.ObserveRollbackSteps(steps)
	}

	npv := grid.Interpolate(v.Values(), center)
	return solveOutput{npv: npv, grid: grid, v: v}, nil
}

// greeksFromGrid reads Delta and Gamma off the solved grid by finite
// differencing in log-price coordinates and applying the S=exp(x)
// chain-rule correction, per spec.md §4.G step 6.
func greeksFromGrid(g fd.Grid, v fd.Array, spot float64) (delta, gamma float64) {
	x := math.Log(spot)
	i := g.Locate(x)
	if i < 1 {
		i = 1
	}
	if i > g.Size()-2 {
		i = g.Size() - 2
	}
	x0, x1, x2 := g.At(i-1), g.At(i), g.At(i+1)
	v0, v1, v2 := v.At(i-1), v.At(i), v.At(i+1)

	dvdx := (v2 - v0) / (x2 - x0)
	d2vdx2 := 2 * ((v2-v1)/(x2-x1) - (v1-v0)/(x1-x0)) / (x2 - x0)

	delta = dvdx / spot
	gamma = (d2vdx2 - dvdx) / (spot * spot)
	return delta, gamma
}
