// Package operator builds concrete TridiagonalOperators from a grid and
// model parameters. BlackScholesOperator is the one concrete differential
// operator this module ships; its stencil is grounded on QuantLib's
// ql/FiniteDifferences/dminus.hpp and dzero.hpp first/second-derivative
// building blocks, combined per the diffusion-drift-discount formula in
// spec.md §4.D.
package operator

import (
	"github.com/halvard-quant/fdpricer/fd"
)

// RateFunc/YieldFunc/VolFunc let the Black-Scholes operator's market
// parameters depend on time, matching spec.md §4.D's "possibly
// time-varying" r/q/σ. A constant parameter is simply a function ignoring
// its argument (see Constant).
type (
	RateFunc  func(t float64) float64
	YieldFunc func(t float64) float64
	VolFunc   func(t float64) float64
)

// Constant adapts a fixed value to the *Func signatures.
func Constant(v float64) func(float64) float64 {
	return func(float64) float64 { return v }
}

// BlackScholesParams bundles the model inputs for the operator builder.
type BlackScholesParams struct {
	Rate  RateFunc
	Yield YieldFunc
	Vol   VolFunc
}

func (p BlackScholesParams) at(t float64) (r, q, sigma float64) {
	return p.Rate(t), p.Yield(t), p.Vol(t)
}

// New builds a time-constant BlackScholesOperator over grid for the given
// market parameters, per spec.md §4.D:
//
//	low_i  = -1/2 * sigma^2/dx^2 + (r - q - 1/2*sigma^2) / (2*dx)
//	diag_i = +sigma^2/dx^2 + r
//	up_i   = -1/2 * sigma^2/dx^2 - (r - q - 1/2*sigma^2) / (2*dx)
//
// For a non-uniform grid each interior row uses the analogous
// variable-step second-order stencil instead of the fixed-dx formula,
// falling back algebraically to the formula above when steps are equal.
// The returned operator reports IsTimeDependent() == false; use
// NewTimeVarying when r, q or sigma genuinely depend on time.
func New(grid fd.Grid, params BlackScholesParams) fd.TridiagonalOperator {
	return build(grid, params, 0)
}

// NewTimeVarying builds a BlackScholesOperator whose coefficients are
// recomputed by SetTime(t) on every scheme step, for the case where r, q or
// sigma depend on time (e.g. a term-structure-driven rate or vol).
func NewTimeVarying(grid fd.Grid, params BlackScholesParams) fd.TridiagonalOperator {
	op := build(grid, params, 0)
	g := grid
	bsParams := params
	var refresh func(dst *fd.TridiagonalOperator, t float64)
	refresh = func(dst *fd.TridiagonalOperator, t float64) {
		*dst = build(g, bsParams, t)
		dst.SetTimeDependent(refresh)
	}
	op.SetTimeDependent(refresh)
	return op
}

func build(grid fd.Grid, params BlackScholesParams, t float64) fd.TridiagonalOperator {
	n := grid.Size()
	op := fd.NewTridiagonalOperator(n)
	r, q, sigma := params.at(t)
	sigma2 := sigma * sigma
	drift := r - q - 0.5*sigma2

	if grid.IsUniform() {
		h := grid.Step(0)
		low := -0.5*sigma2/(h*h) + drift/(2*h)
		diag := sigma2/(h*h) + r
		up := -0.5*sigma2/(h*h) - drift/(2*h)
		op.SetMidRows(low, diag, up)
	} else {
		for i := 1; i < n-1; i++ {
			hDown := grid.At(i) - grid.At(i-1)
			hUp := grid.At(i+1) - grid.At(i)

			// Three-point variable-spacing central stencils for the
			// first and second derivative at i (Lagrange interpolation
			// on the non-uniform triple), which reduce to the standard
			// 1/(2h), 1/h^2 uniform-grid coefficients when hDown==hUp.
			d2Low := 2 / (hDown * (hDown + hUp))
			d2Mid := -2 / (hDown * hUp)
			d2Up := 2 / (hUp * (hDown + hUp))

			d1Low := -hUp / (hDown * (hDown + hUp))
			d1Mid := (hUp - hDown) / (hDown * hUp)
			d1Up := hDown / (hUp * (hDown + hUp))

			low := -(0.5*sigma2*d2Low + drift*d1Low)
			diag := -(0.5*sigma2*d2Mid+drift*d1Mid) + r
			up := -(0.5*sigma2*d2Up + drift*d1Up)
			op.SetMidRow(i, low, diag, up)
		}
	}
	return op
}
