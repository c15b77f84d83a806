package operator

import (
	"math"
	"testing"

	"github.com/halvard-quant/fdpricer/fd"
)

func TestBlackScholesUniformGridCoefficients(t *testing.T) {
	grid, err := fd.UniformGrid(0, 1, 5)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}
	params := BlackScholesParams{Rate: Constant(0.05), Yield: Constant(0.01), Vol: Constant(0.2)}
	op := New(grid, params)
	if op.IsTimeDependent() {
		t.Error("New() should build a time-constant operator")
	}

	h := grid.Step(0)
	sigma2 := 0.2 * 0.2
	drift := 0.05 - 0.01 - 0.5*sigma2
	wantLow := -0.5*sigma2/(h*h) + drift/(2*h)
	wantDiag := sigma2/(h*h) + 0.05
	wantUp := -0.5*sigma2/(h*h) - drift/(2*h)

	low, diag, up := op.Rows()
	const tol = 1e-10
	if math.Abs(low[2]-wantLow) > tol {
		t.Errorf("low = %v, want %v", low[2], wantLow)
	}
	if math.Abs(diag[2]-wantDiag) > tol {
		t.Errorf("diag = %v, want %v", diag[2], wantDiag)
	}
	if math.Abs(up[2]-wantUp) > tol {
		t.Errorf("up = %v, want %v", up[2], wantUp)
	}
}

func TestBlackScholesNewGridMatchesUniformGridBuilder(t *testing.T) {
	// An equally spaced grid built point by point with NewGrid should
	// produce the same coefficients as one built by UniformGrid.
	grid, err := fd.NewGrid([]float64{-2, -1, 0, 1, 2})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	uniformGrid, err := fd.UniformGrid(0, 2, 5)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}
	params := BlackScholesParams{Rate: Constant(0.03), Yield: Constant(0), Vol: Constant(0.3)}

	// Both grids report IsUniform() == true, so both operators go through
	// the fixed-dx branch of the builder; the variable-step branch is not
	// exercised here.
	opA := New(grid, params)
	opB := New(uniformGrid, params)

	lowA, diagA, upA := opA.Rows()
	lowB, diagB, upB := opB.Rows()
	const tol = 1e-9
	for i := 1; i < 4; i++ {
		if math.Abs(lowA[i]-lowB[i]) > tol || math.Abs(diagA[i]-diagB[i]) > tol || math.Abs(upA[i]-upB[i]) > tol {
			t.Errorf("row %d mismatch: got (%v,%v,%v), want (%v,%v,%v)", i, lowA[i], diagA[i], upA[i], lowB[i], diagB[i], upB[i])
		}
	}
}

func TestBlackScholesNonUniformGridIsFinite(t *testing.T) {
	grid, err := fd.NewGrid([]float64{-2, -1, -0.2, 0.3, 1.5, 2.5})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if grid.IsUniform() {
		t.Fatal("test grid should be non-uniform")
	}
	params := BlackScholesParams{Rate: Constant(0.02), Yield: Constant(0.01), Vol: Constant(0.25)}
	op := New(grid, params)
	v := make([]float64, grid.Size())
	for i := range v {
		v[i] = math.Exp(grid.At(i))
	}
	out, err := op.ApplyTo(fd.NewArrayFrom(v))
	if err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if !out.IsFinite() {
		t.Error("non-uniform operator produced non-finite output")
	}
}

func TestBlackScholesTimeVaryingRefreshesOnSetTime(t *testing.T) {
	grid, err := fd.UniformGrid(0, 1, 5)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}
	calls := 0
	rate := RateFunc(func(t float64) float64 {
		calls++
		return 0.01 * t
	})
	op := NewTimeVarying(grid, BlackScholesParams{Rate: rate, Yield: Constant(0), Vol: Constant(0.2)})
	if !op.IsTimeDependent() {
		t.Fatal("NewTimeVarying() should build a time-dependent operator")
	}
	before := calls
	op.SetTime(2.0)
	if calls <= before {
		t.Error("SetTime did not invoke the rate function")
	}
}
