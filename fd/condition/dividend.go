package condition

import (
	"math"

	"github.com/halvard-quant/fdpricer/fd"
)

// Dividend shifts the solution vector across a discrete cash dividend by
// grid interpolation, grounded directly on QuantLib's
// DividendOption::movePricesBeforeExDiv: since the rollback walks backward
// in time, applying a dividend condition at the ex-div stopping time
// expresses V_before(S) = V_after(S - D) — the value an instant before the
// dividend is paid, at price S, equals the already-known value an instant
// after, at price S-D (the asset drops by the dividend the moment it's
// paid). In log-price coordinates this is an interpolation onto a grid
// shifted by log(exp(x) - D).
type Dividend struct {
	Grid   fd.Grid
	Amount float64
}

// NewDividend builds a dividend step condition for a cash amount paid on
// grid.
func NewDividend(grid fd.Grid, amount float64) Dividend {
	return Dividend{Grid: grid, Amount: amount}
}

// ApplyTo evaluates the post-dividend values v, by interpolation on the
// grid, at the post-dividend price exp(x[i]) - Amount for every grid
// point i.
func (c Dividend) ApplyTo(v fd.Array, t float64) (fd.Array, error) {
	if v.Size() != c.Grid.Size() {
		return fd.Array{}, fd.ErrSizeMismatch
	}
	vals := v.Values()
	out := fd.NewArray(v.Size())
	for i := 0; i < v.Size(); i++ {
		s := math.Exp(c.Grid.At(i))
		sShifted := s - c.Amount
		if sShifted < 1e-8 {
			sShifted = 1e-8
		}
		xShifted := math.Log(sShifted)
		out.SetInPlace(i, c.Grid.Interpolate(vals, xShifted))
	}
	return out, nil
}
