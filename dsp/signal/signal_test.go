package signal

import (
	"errors"
	"math"
	"testing"
)

func TestParseWaveform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Waveform
	}{
		{"sine", WaveSine},
		{"saw", WaveSawtooth},
		{"Sawtooth", WaveSawtooth},
		{" square ", WaveSquare},
		{"triangle", WaveTriangle},
	}
	for _, tt := range tests {
		got, err := ParseWaveform(tt.in)
		if err != nil {
			t.Fatalf("ParseWaveform(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseWaveform(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseWaveform("noise"); err == nil {
		t.Fatal("expected error for unknown waveform")
	}
}

func TestWaveformSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w     Waveform
		phase float64
		want  float64
	}{
		{WaveSine, 0, 0},
		{WaveSine, 0.25, 1},
		{WaveSine, 1.25, 1},
		{WaveSawtooth, 0.25, 0.5},
		{WaveSawtooth, 0.75, -0.5},
		{WaveSquare, 0.1, 1},
		{WaveSquare, 0.6, -1},
		{WaveTriangle, 0.25, 1},
		{WaveTriangle, 0.5, 0},
		{WaveTriangle, 0.75, -1},
		{WaveTriangle, -0.25, -1},
	}
	for _, tt := range tests {
		got := tt.w.Sample(tt.phase)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v.Sample(%v) = %v, want %v", tt.w, tt.phase, got, tt.want)
		}
	}
}

func TestWaveformBounded(t *testing.T) {
	t.Parallel()

	for _, w := range []Waveform{WaveSine, WaveSawtooth, WaveSquare, WaveTriangle} {
		for i := range 1000 {
			v := w.Sample(float64(i) / 997)
			if v < -1 || v > 1 {
				t.Fatalf("%v sample %d out of range: %v", w, i, v)
			}
		}
	}
}

func TestNoiseDeterministic(t *testing.T) {
	t.Parallel()

	a, b := NewNoise(7), NewNoise(7)
	for i := range 32 {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("sample %d: %v != %v", i, x, y)
		}
		if x < -1 || x >= 1 {
			t.Fatalf("sample %d out of range: %v", i, x)
		}
		if a.Sign() != b.Sign() {
			t.Fatalf("sign %d differs", i)
		}
	}

	if NewNoise(8).Next() == NewNoise(7).Next() {
		t.Fatal("different seeds produced the same first sample")
	}
}

func TestNormalizePeak(t *testing.T) {
	t.Parallel()

	data := []float64{0.1, -0.3, 0.2}
	if err := NormalizePeak(data, 0.8); err != nil {
		t.Fatal(err)
	}
	if data[1] != -0.8 {
		t.Fatalf("peak = %v, want -0.8", data[1])
	}
	if math.Abs(data[0]-0.8/3) > 1e-12 {
		t.Fatalf("data[0] = %v, want %v", data[0], 0.8/3)
	}

	if err := NormalizePeak(make([]float64, 4), 0.8); !errors.Is(err, ErrSilent) {
		t.Fatalf("err = %v, want ErrSilent", err)
	}
}
