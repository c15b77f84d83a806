package fd

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func sampleOperator(n int) TridiagonalOperator {
	op := NewTridiagonalOperator(n)
	op.SetFirstRow(2, -1)
	op.SetMidRows(-1, 2, -1)
	op.SetLastRow(-1, 2)
	return op
}

func TestIdentityOperator(t *testing.T) {
	id := Identity(4)
	v := NewArrayFrom([]float64{1, 2, 3, 4})

	applied, err := id.ApplyTo(v)
	if err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	for i := 0; i < 4; i++ {
		if applied.At(i) != v.At(i) {
			t.Errorf("I.applyTo(v)[%d] = %v, want %v", i, applied.At(i), v.At(i))
		}
	}

	solved, err := id.SolveFor(v)
	if err != nil {
		t.Fatalf("SolveFor: %v", err)
	}
	for i := 0; i < 4; i++ {
		if solved.At(i) != v.At(i) {
			t.Errorf("I.solveFor(v)[%d] = %v, want %v", i, solved.At(i), v.At(i))
		}
	}
}

func TestSolveForInvertsApplyTo(t *testing.T) {
	op := sampleOperator(6)
	v := NewArrayFrom([]float64{1, -2, 3, 0.5, 7, -4})

	applied, err := op.ApplyTo(v)
	if err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	solved, err := op.SolveFor(applied)
	if err != nil {
		t.Fatalf("SolveFor: %v", err)
	}
	for i := 0; i < v.Size(); i++ {
		if !approxEqual(solved.At(i), v.At(i), 1e-10) {
			t.Errorf("solveFor(applyTo(v))[%d] = %v, want %v", i, solved.At(i), v.At(i))
		}
	}
}

func TestScaledOperatorSolve(t *testing.T) {
	op := sampleOperator(5)
	v := NewArrayFrom([]float64{1, 2, 3, 4, 5})

	base, err := op.SolveFor(v)
	if err != nil {
		t.Fatalf("SolveFor: %v", err)
	}
	const alpha = 3.0
	scaled := op.Scale(alpha)
	scaledSolve, err := scaled.SolveFor(v)
	if err != nil {
		t.Fatalf("scaled SolveFor: %v", err)
	}
	for i := 0; i < v.Size(); i++ {
		want := base.At(i) / alpha
		if !approxEqual(scaledSolve.At(i), want, 1e-9) {
			t.Errorf("(alpha*M).solveFor(v)[%d] = %v, want %v", i, scaledSolve.At(i), want)
		}
	}
}

func TestSingularOperator(t *testing.T) {
	op := NewTridiagonalOperator(3)
	v := NewArrayFrom([]float64{1, 2, 3})
	_, err := op.SolveFor(v)
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}
}

func TestAddIdentityInPlace(t *testing.T) {
	src := sampleOperator(4)
	dst := NewTridiagonalOperator(4)
	dst.AddIdentityInPlace(1, -0.5, src)

	v := NewArrayFrom([]float64{1, 2, 3, 4})
	got, err := dst.ApplyTo(v)
	if err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	expectedOp := src.Scale(-0.5)
	id := Identity(4)
	sum, _ := id.Add(expectedOp)
	want, err := sum.ApplyTo(v)
	if err != nil {
		t.Fatalf("ApplyTo (want): %v", err)
	}
	for i := 0; i < 4; i++ {
		if !approxEqual(got.At(i), want.At(i), 1e-12) {
			t.Errorf("AddIdentityInPlace result[%d] = %v, want %v", i, got.At(i), want.At(i))
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	op := sampleOperator(4)
	clone := op.Clone()
	clone.SetFirstRow(999, 999)
	low, diag, up := op.Rows()
	if diag[0] == 999 || up[0] == 999 {
		t.Error("mutating the clone affected the original operator")
	}
	_ = low
}
