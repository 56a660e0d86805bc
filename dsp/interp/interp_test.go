package interp

import (
	"math"
	"testing"
)

func TestLinearEndpoints(t *testing.T) {
	if got := Linear(0, 2, 4); got != 2 {
		t.Fatalf("Linear(0) = %v, want 2", got)
	}
	if got := Linear(1, 2, 4); got != 4 {
		t.Fatalf("Linear(1) = %v, want 4", got)
	}
	if got := Linear(0.5, 2, 4); got != 3 {
		t.Fatalf("Linear(0.5) = %v, want 3", got)
	}
}

func TestHermite4Endpoints(t *testing.T) {
	if got := Hermite4(0, -1, 0.5, 1, 2); got != 0.5 {
		t.Fatalf("Hermite4(t=0) = %v, want 0.5", got)
	}
	if got := Hermite4(1, -1, 0.5, 1, 2); got != 1 {
		t.Fatalf("Hermite4(t=1) = %v, want 1", got)
	}
}

func TestHermite4ReproducesLine(t *testing.T) {
	// On a straight line the cubic must match the line everywhere.
	for tt := 0.0; tt <= 1.0; tt += 0.125 {
		got := Hermite4(tt, 0, 1, 2, 3)
		want := 1 + tt
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("Hermite4(%v) = %v, want %v", tt, got, want)
		}
	}
}
