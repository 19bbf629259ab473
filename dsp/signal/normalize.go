package signal

import (
	"errors"
	"math"
)

// ErrSilent is returned when a buffer has no finite non-zero sample to scale.
var ErrSilent = errors.New("signal: cannot normalize silent buffer")

// NormalizePeak scales data in place so its largest absolute sample equals
// target exactly. The peak sample is written as ±target after scaling so
// floating-point rounding cannot leave it a ulp off.
func NormalizePeak(data []float64, target float64) error {
	peakIdx := -1
	peak := 0.0

	for i, v := range data {
		if av := math.Abs(v); av > peak {
			peak = av
			peakIdx = i
		}
	}

	if peakIdx < 0 || math.IsInf(peak, 0) {
		return ErrSilent
	}

	scale := target / peak
	for i := range data {
		data[i] *= scale
	}

	data[peakIdx] = math.Copysign(target, data[peakIdx])

	return nil
}
