package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04, x = [1, 0, 0]
	//
	// n=0: y=0.25           d0=0.55 d1=0.24
	// n=1: y=0.55           d0=0.35 d1=-0.022
	// n=2: y=0.35           d0=0.048
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})
	want := []float64{0.25, 0.55, 0.35}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, 1e-12) {
			t.Fatalf("n=%d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesSampleLoop(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.5, A2: 0.2}
	ref := NewSection(c)
	blk := NewSection(c)

	in := make([]float64, 64)
	for i := range in {
		in[i] = math.Sin(float64(i) * 0.3)
	}

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = ref.ProcessSample(x)
	}

	got := append([]float64(nil), in...)
	blk.ProcessBlock(got)

	for i := range want {
		if !almostEqual(got[i], want[i], eps) {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProcessBlockTo(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, B1: 0.5})
	dst := make([]float64, 3)
	s.ProcessBlockTo(dst, []float64{1, 1, 1})
	if dst[0] != 0.5 || dst[1] != 1 || dst[2] != 1 {
		t.Fatalf("dst = %v", dst)
	}
}

func TestSetCoefficientsKeepsState(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, B1: 0.5})
	s.ProcessSample(1)
	before := s.State()
	s.SetCoefficients(Coefficients{B0: 1})
	if s.State() != before {
		t.Fatalf("state changed on coefficient update: %v -> %v", before, s.State())
	}
	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("state not cleared: %v", s.State())
	}
}

func TestResponseDC(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.5}
	if db := c.MagnitudeDB(0, 48000); !almostEqual(db, 0, 1e-9) {
		t.Fatalf("DC gain = %v dB, want 0", db)
	}
	if !c.IsStable() {
		t.Fatal("FIR section should be stable")
	}
	if (&Coefficients{A2: 1.5}).IsStable() {
		t.Fatal("pole outside unit circle reported stable")
	}
}
