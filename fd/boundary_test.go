package fd

import "testing"

func TestDirichletBoundary(t *testing.T) {
	op := sampleOperator(5)
	bcs := NewBoundaryConditionSet(
		NewDirichlet(Lower, 7),
		NewDirichlet(Upper, -3),
	)
	bcs.ApplyBeforeApplying(&op)

	v := NewArrayFrom([]float64{1, 2, 3, 4, 5})
	out, err := op.ApplyTo(v)
	if err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	out = bcs.ApplyAfterApplying(out)
	if out.At(0) != 7 {
		t.Errorf("lower boundary = %v, want 7", out.At(0))
	}
	if out.At(out.Size()-1) != -3 {
		t.Errorf("upper boundary = %v, want -3", out.At(out.Size()-1))
	}
}

func TestNeumannBoundaryZeroCurvature(t *testing.T) {
	op := NewTridiagonalOperator(4)
	bc := NewNeumann(Lower, 0.5, 0)
	bc.ApplyBeforeApplying(&op)

	v := NewArrayFrom([]float64{2, 2, 2, 2})
	out, err := op.ApplyTo(v)
	if err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if out.At(0) != 0 {
		t.Errorf("zero-curvature row on a flat vector should yield 0, got %v", out.At(0))
	}
}
