package reverb

import (
	"fmt"
	"math"
	"strconv"
)

// Control mappings for 0..100 tone, 1..80 decay and 0..100 mix sliders.

// ToneFromSlider maps a 0..100 slider position to a cutoff between 200 Hz
// and 20 kHz on a log scale.
func ToneFromSlider(pos int) float64 {
	return math.Round(MinTone * math.Pow(100, float64(pos)/100))
}

// ToneToSlider is the inverse of ToneFromSlider.
func ToneToSlider(hz float64) int {
	return int(math.Round(100 * math.Log(hz/MinTone) / math.Log(100)))
}

// DecayFromSlider maps a 1..80 slider to seconds in tenths.
func DecayFromSlider(pos int) float64 {
	return float64(pos) / 10
}

func DecayToSlider(sec float64) int {
	return int(math.Round(sec * 10))
}

// FormatTone renders a cutoff as "800" or "8.0k".
func FormatTone(hz float64) string {
	if hz >= 1000 {
		return strconv.FormatFloat(hz/1000, 'f', 1, 64) + "k"
	}

	return strconv.FormatFloat(hz, 'f', -1, 64)
}

func FormatDecay(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 1, 64) + "s"
}

func FormatMix(mix float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(mix*100)))
}

// Status summarizes the module settings, e.g. "Small Room 0.4s 8.0k 50%".
func (r *Reverb) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fmt.Sprintf("%s %s %s %s", r.preset.Name, FormatDecay(r.decay), FormatTone(r.tone), FormatMix(r.mix))
}
