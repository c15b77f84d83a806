package fd

import (
	"errors"
	"math"
	"testing"
)

func TestUniformGrid(t *testing.T) {
	g, err := UniformGrid(0, 1, 5)
	if err != nil {
		t.Fatalf("UniformGrid: %v", err)
	}
	if g.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", g.Size())
	}
	if !g.IsUniform() {
		t.Error("expected uniform grid")
	}
	if math.Abs(g.At(0)-(-1)) > 1e-12 || math.Abs(g.At(4)-1) > 1e-12 {
		t.Errorf("bounds = [%v, %v], want [-1, 1]", g.At(0), g.At(4))
	}
}

func TestNewGridRejectsNonMonotone(t *testing.T) {
	_, err := NewGrid([]float64{0, 1, 0.5, 2})
	if !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid, got %v", err)
	}
}

func TestGridLocateAndInterpolate(t *testing.T) {
	g, err := NewGrid([]float64{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	values := []float64{0, 10, 20, 30}

	if i := g.Locate(1.5); i != 1 {
		t.Errorf("Locate(1.5) = %d, want 1", i)
	}
	if got := g.Interpolate(values, 1.5); got != 15 {
		t.Errorf("Interpolate(1.5) = %v, want 15", got)
	}
	if got := g.Interpolate(values, -10); got != 0 {
		t.Errorf("Interpolate below range = %v, want clamp to 0", got)
	}
	if got := g.Interpolate(values, 10); got != 30 {
		t.Errorf("Interpolate above range = %v, want clamp to 30", got)
	}
}

func TestNonUniformGridDetection(t *testing.T) {
	g, err := NewGrid([]float64{0, 1, 3, 4})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.IsUniform() {
		t.Error("expected non-uniform grid to report IsUniform() == false")
	}
}
