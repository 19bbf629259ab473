package ir

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
)

var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrNoDecay           = errors.New("ir: response does not decay far enough")
)

// Schroeder values of silent tails are clamped to this level.
const floorDB = -200

// Metrics holds the analysis of one response.
type Metrics struct {
	RT60       float64 // seconds
	EDT        float64 // seconds
	T20        float64 // seconds
	T30        float64 // seconds
	C50        float64 // dB
	C80        float64 // dB
	D50        float64 // 0..1
	CenterTime float64 // seconds
	PeakIndex  int
}

// Analyzer computes Metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

func (a *Analyzer) check(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}
	if !(a.SampleRate > 0) {
		return ErrInvalidSampleRate
	}
	return nil
}

// Analyze measures ir from its absolute peak onwards, so leading silence
// and pre-delay do not count.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.check(ir); err != nil {
		return Metrics{}, err
	}

	peak := peakIndex(ir)
	h := ir[peak:]
	curve := schroeder(h)

	m := Metrics{
		PeakIndex:  peak,
		EDT:        a.fitDecay(curve, 0, -10),
		T20:        a.fitDecay(curve, -5, -25),
		T30:        a.fitDecay(curve, -5, -35),
		C50:        a.clarity(h, 0.050),
		C80:        a.clarity(h, 0.080),
		D50:        a.definition(h, 0.050),
		CenterTime: a.centerTime(h),
	}
	m.RT60 = m.T30
	if m.RT60 == 0 {
		m.RT60 = m.T20
	}

	return m, nil
}

// RT60 returns the reverberation time of ir or ErrNoDecay when neither
// the T30 nor the T20 range is reached.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	m, err := a.Analyze(ir)
	if err != nil {
		return 0, err
	}
	if m.RT60 == 0 {
		return 0, ErrNoDecay
	}
	return m.RT60, nil
}

// Schroeder returns the normalized backward energy integral of ir in dB.
// The first value is 0 dB.
func (a *Analyzer) Schroeder(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}
	return schroeder(ir), nil
}

func schroeder(h []float64) []float64 {
	out := make([]float64, len(h))

	sum := 0.0
	for i := len(h) - 1; i >= 0; i-- {
		sum += h[i] * h[i]
		out[i] = sum
	}

	total := out[0]
	if total <= 0 {
		for i := range out {
			out[i] = floorDB
		}
		return out
	}

	for i, e := range out {
		if e <= 0 {
			out[i] = floorDB
			continue
		}
		out[i] = 10 * math.Log10(e/total)
	}

	return out
}

// fitDecay fits a line to curve between fromDB and toDB and returns the
// time it takes to fall 60 dB at that slope, or 0 when the range is not
// covered.
func (a *Analyzer) fitDecay(curve []float64, fromDB, toDB float64) float64 {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= fromDB {
			start = i
		}
		if start >= 0 && v <= toDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start + 1)
	for i := start; i <= end; i++ {
		x := float64(i - start)
		sx += x
		sy += curve[i]
		sxx += x * x
		sxy += x * curve[i]
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}

	slope := (n*sxy - sx*sy) / den * a.SampleRate // dB per second
	if slope >= 0 {
		return 0
	}

	return -60 / slope
}

func (a *Analyzer) split(h []float64, seconds float64) (early, late float64) {
	boundary := int(math.Round(seconds * a.SampleRate))
	for i, v := range h {
		if i < boundary {
			early += v * v
		} else {
			late += v * v
		}
	}
	return early, late
}

func (a *Analyzer) clarity(h []float64, seconds float64) float64 {
	early, late := a.split(h, seconds)
	switch {
	case late <= 0:
		return math.Inf(1)
	case early <= 0:
		return math.Inf(-1)
	}
	return 10 * math.Log10(early/late)
}

func (a *Analyzer) definition(h []float64, seconds float64) float64 {
	early, late := a.split(h, seconds)
	if early+late <= 0 {
		return 0
	}
	return early / (early + late)
}

func (a *Analyzer) centerTime(h []float64) float64 {
	var num, den float64
	for i, v := range h {
		e := v * v
		num += float64(i) / a.SampleRate * e
		den += e
	}
	if den <= 0 {
		return 0
	}
	return num / den
}

func peakIndex(h []float64) int {
	_, idx := core.PeakAbs(h)
	return max(idx, 0)
}
