package window

import (
	"math"
	"testing"
)

func TestGenerateEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ       Type
		edge, mid float64
	}{
		{TypeRectangular, 1, 1},
		{TypeHann, 0, 1},
		{TypeHamming, 0.08, 1},
		{TypeBlackman, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			t.Parallel()

			w := Generate(tt.typ, 9)
			if len(w) != 9 {
				t.Fatalf("len = %d, want 9", len(w))
			}
			if math.Abs(w[0]-tt.edge) > 1e-12 || math.Abs(w[8]-tt.edge) > 1e-12 {
				t.Fatalf("edges = %v, %v, want %v", w[0], w[8], tt.edge)
			}
			if math.Abs(w[4]-tt.mid) > 1e-12 {
				t.Fatalf("center = %v, want %v", w[4], tt.mid)
			}
			for i := range w {
				if math.Abs(w[i]-w[8-i]) > 1e-12 {
					t.Fatalf("not symmetric at %d", i)
				}
			}
		})
	}
}

func TestPeriodicHann(t *testing.T) {
	t.Parallel()

	const n = 16
	w := Generate(TypeHann, n, WithPeriodic())
	for i, v := range w {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, v, want)
		}
	}

	// the periodic Hann sums to exactly half its length
	if got := CoherentGain(w); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("coherent gain = %v, want 0.5", got)
	}
}

func TestGenerateEmpty(t *testing.T) {
	t.Parallel()

	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}
	if got := CoherentGain(nil); got != 0 {
		t.Fatalf("CoherentGain(nil) = %v", got)
	}
	Apply(TypeHann, nil)
}

func TestApply(t *testing.T) {
	t.Parallel()

	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)

	want := []float64{0, 1, 2, 1, 0}
	for i := range buf {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		got, err := ParseType(" " + typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
	if got := Type(42).String(); got != "Type(42)" {
		t.Fatalf("String() = %q", got)
	}
}
