package pricing

import (
	"math"
	"testing"

	"github.com/halvard-quant/fdpricer/fd"
	"github.com/halvard-quant/fdpricer/fd/condition"
	"github.com/halvard-quant/fdpricer/fd/model"
	"github.com/halvard-quant/fdpricer/fd/operator"
	"github.com/halvard-quant/fdpricer/fd/scheme"
)

// forwardEulerPrice prices a European call directly via ForwardEuler
// (bypassing the engine's Crank-Nicolson default) to exercise the CFL
// stability threshold from spec.md §8 scenario 6.
func forwardEulerPrice(t *testing.T, market MarketData, gridPoints, steps int) float64 {
	t.Helper()

	spot := market.Spot.Value()
	rate := market.Rate.Value()
	yield := market.Yield.Value()
	vol := market.Vol.Value()
	const strike = 100.0
	const expiry = 1.0

	halfWidth := 4.0 * vol * math.Sqrt(expiry)
	center := math.Log(spot)
	grid, err := fd.UniformGrid(center, halfWidth, gridPoints)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}

	v := fd.NewArray(grid.Size())
	for i := 0; i < grid.Size(); i++ {
		v.SetInPlace(i, math.Max(math.Exp(grid.At(i))-strike, 0))
	}

	op := operator.New(grid, operator.BlackScholesParams{
		Rate:  operator.Constant(rate),
		Yield: operator.Constant(yield),
		Vol:   operator.Constant(vol),
	})
	bcs := fd.NewBoundaryConditionSet(
		fd.NewNeumann(fd.Lower, grid.Step(0), 0),
		fd.NewNeumann(fd.Upper, grid.Step(grid.Size()-2), 0),
	)

	s := scheme.NewForwardEuler(&op, bcs)
	m := model.New(s, nil)
	out, err := m.Rollback(v, expiry, 0, steps, condition.Null{})
	if err != nil {
		// A diverging explicit scheme surfaces ErrNumericalFailure; treat
		// that as the maximal possible divergence for this scenario.
		return math.Inf(1)
	}
	return grid.Interpolate(out.Values(), center)
}
